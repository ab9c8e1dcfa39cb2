package app

import (
	"context"
	"fmt"
	"io"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/cache"
	"github.com/kapu/cinefact-client-go/internal/command"
	"github.com/kapu/cinefact-client-go/internal/config"
	"github.com/kapu/cinefact-client-go/internal/constants"
	"github.com/kapu/cinefact-client-go/internal/editor"
	"github.com/kapu/cinefact-client-go/internal/history"
	"github.com/kapu/cinefact-client-go/internal/session"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Container bundles assembled services for running an interactive session.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Session *session.Session

	closers []func()
}

// Close releases infrastructure connections in reverse assembly order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the typed client, cache tiers, journal, editor and
// session. All heavy-weight initialization (Redis/Postgres) happens here;
// on failure the already-opened connections are unwound.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, in io.Reader, out io.Writer) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	var tokens oauth2.TokenSource
	if cfg.Auth.Token != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Auth.Token})
	}

	client := api.NewClient(cfg.API.BaseURL, constants.APIConfig.RequestTimeout, tokens, logger)

	cacheCfg := cache.Config{
		TTL:    constants.CacheTTL.MovieFact,
		Logger: logger,
	}
	if cfg.Redis.Enabled() {
		redisClient, redisErr := cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if redisErr != nil {
			return nil, fmt.Errorf("failed to connect redis cache tier: %w", redisErr)
		}
		closers = append(closers, func() {
			_ = redisClient.Close()
		})
		cacheCfg.Redis = redisClient
	}
	factCache := cache.New(cacheCfg)

	var journal *history.FactJournal
	var schemaEnsurer session.SchemaEnsurer
	if cfg.Postgres.Enabled() {
		postgresSvc, pgErr := history.NewPostgresService(history.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to connect fact journal: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})
		journal = history.NewFactJournal(postgresSvc, logger)
		schemaEnsurer = journal
	}

	state := command.NewSessionState()

	ed := editor.New(editor.Config{
		Write: client.UpdateFavoriteMovie,
		OnValueChanged: func(value string) {
			state.SetFavoriteMovie(value)
		},
		OnStale: func(previous string) {
			key := command.FactCacheKey(state.UserID(), previous)
			if invErr := factCache.Invalidate(context.Background(), key); invErr != nil {
				logger.Warn("Stale-entry invalidation failed", zap.String("key", key), zap.Error(invErr))
			}
		},
		Logger: logger,
	})

	deps := &command.Dependencies{
		Client: client,
		Cache:  factCache,
		Editor: ed,
		State:  state,
		Print: func(message string) {
			fmt.Fprintln(out, message)
		},
		PrintError: func(message string) {
			fmt.Fprintln(out, "! "+message)
		},
		Logger: logger,
	}
	if journal != nil {
		deps.Journal = journal
	}

	registry := command.NewRegistry()
	registry.Register(command.NewProfileCommand(deps))
	registry.Register(command.NewMovieCommand(deps))
	registry.Register(command.NewFactCommand(deps))
	registry.Register(command.NewHistoryCommand(deps))
	registry.Register(command.NewHelpCommand(deps, registry))

	sess := session.New(session.Config{
		Registry: registry,
		Deps:     deps,
		Journal:  schemaEnsurer,
		In:       in,
		Out:      out,
		Logger:   logger,
	})

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Session: sess,
		closers: closers,
	}, nil
}
