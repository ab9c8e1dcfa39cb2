package command

import (
	"context"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/cache"
	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/kapu/cinefact-client-go/internal/editor"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args []string) error
}

// API is the slice of the typed client the commands consume.
// *api.Client satisfies it; tests substitute canned results.
type API interface {
	FetchProfile(ctx context.Context) api.Result[domain.UserProfile]
	UpdateFavoriteMovie(ctx context.Context, title string) api.Result[api.FavoriteMovieUpdate]
	FetchFact(ctx context.Context) api.Result[domain.MovieFact]
}

// Journal is the optional local fact history.
type Journal interface {
	Append(ctx context.Context, fact *domain.MovieFact) error
	Recent(ctx context.Context, limit int) ([]*domain.MovieFact, error)
}

type Dependencies struct {
	Client     API
	Cache      *cache.FactCache
	Editor     *editor.Editor
	Journal    Journal // nil when the journal is not configured
	State      *SessionState
	Print      func(message string)
	PrintError func(message string)
	Logger     *zap.Logger
}
