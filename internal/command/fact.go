package command

import (
	"context"
	"fmt"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/constants"
	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/kapu/cinefact-client-go/internal/util"
	"go.uber.org/zap"
)

// FactCommand serves a generated fact through the cache so repeated asks
// within the TTL do not hit the generation service again.
type FactCommand struct {
	deps *Dependencies
}

func NewFactCommand(deps *Dependencies) *FactCommand {
	return &FactCommand{deps: deps}
}

func (c *FactCommand) Name() string {
	return "fact"
}

func (c *FactCommand) Description() string {
	return "Show a fact about your favorite movie"
}

func (c *FactCommand) Execute(ctx context.Context, args []string) error {
	movie := c.deps.State.FavoriteMovie()
	if movie == "" {
		c.deps.Print("Set a favorite movie first with 'movie <title>'.")
		return nil
	}

	key := FactCacheKey(c.deps.State.UserID(), movie)
	result := c.deps.Cache.Read(ctx, key, func(ctx context.Context) api.Result[domain.MovieFact] {
		return c.deps.Client.FetchFact(ctx)
	})

	if !result.OK {
		c.deps.Logger.Warn("Fact fetch failed",
			zap.Int("status", result.Status),
			zap.String("error", result.Err),
		)
		c.deps.PrintError(result.Err)
		if result.Retryable() {
			c.deps.Print("Connection trouble - run 'fact' again to retry.")
		}
		return nil
	}

	fact := result.Data
	c.deps.Print(fmt.Sprintf("%s: %s", fact.Movie,
		util.TruncateString(fact.Fact, constants.SessionConfig.FactDisplayLimit)))

	if c.deps.Journal != nil {
		if err := c.deps.Journal.Append(ctx, &fact); err != nil {
			c.deps.Logger.Warn("Failed to journal fact", zap.Error(err))
		}
	}
	return nil
}

// FactCacheKey names the single cache entry for one identity + movie pair.
func FactCacheKey(userID, movie string) string {
	return util.CacheKey("fact", userID, movie)
}
