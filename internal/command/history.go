package command

import (
	"context"
	"fmt"

	"github.com/kapu/cinefact-client-go/internal/constants"
	"go.uber.org/zap"
)

type HistoryCommand struct {
	deps *Dependencies
}

func NewHistoryCommand(deps *Dependencies) *HistoryCommand {
	return &HistoryCommand{deps: deps}
}

func (c *HistoryCommand) Name() string {
	return "history"
}

func (c *HistoryCommand) Description() string {
	return "List recently fetched facts"
}

func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	if c.deps.Journal == nil {
		c.deps.Print("Fact history needs PostgreSQL - set POSTGRES_HOST to enable it.")
		return nil
	}

	facts, err := c.deps.Journal.Recent(ctx, constants.SessionConfig.HistoryPageSize)
	if err != nil {
		c.deps.Logger.Error("Failed to read fact history", zap.Error(err))
		c.deps.PrintError("Could not read fact history.")
		return nil
	}

	if len(facts) == 0 {
		c.deps.Print("No facts journaled yet - try 'fact'.")
		return nil
	}

	for _, fact := range facts {
		c.deps.Print(fmt.Sprintf("[%s] %s: %s",
			fact.CreatedAt.Format("2006-01-02 15:04"), fact.Movie, fact.Fact))
	}
	return nil
}
