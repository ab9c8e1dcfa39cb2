package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/command"
	"github.com/kapu/cinefact-client-go/internal/constants"
	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Session reads commands from a terminal and dispatches them through the
// registry. It owns the prompt; the logger writes to stderr so command
// output stays clean.
type Session struct {
	registry *command.Registry
	deps     *command.Dependencies
	journal  SchemaEnsurer // nil when the journal is not configured
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger
}

// SchemaEnsurer prepares the journal's local storage before first use.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

type Config struct {
	Registry *command.Registry
	Deps     *command.Dependencies
	Journal  SchemaEnsurer
	In       io.Reader
	Out      io.Writer
	Logger   *zap.Logger
}

func New(cfg Config) *Session {
	return &Session{
		registry: cfg.Registry,
		deps:     cfg.Deps,
		journal:  cfg.Journal,
		in:       cfg.In,
		out:      cfg.Out,
		logger:   cfg.Logger,
	}
}

// Run warms up the session, then loops over input lines until quit, EOF,
// or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	s.warmup(ctx)

	scanner := bufio.NewScanner(s.in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil // EOF
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		key := strings.ToLower(fields[0])
		if key == "quit" || key == "exit" {
			fmt.Fprintln(s.out, "Bye.")
			return nil
		}

		if err := s.registry.Execute(ctx, key, fields[1:]); err != nil {
			if errors.Is(err, command.ErrUnknownCommand) {
				fmt.Fprintf(s.out, "Unknown command %q - try 'help'.\n", key)
				continue
			}
			s.logger.Error("Command failed", zap.String("command", key), zap.Error(err))
			fmt.Fprintf(s.out, "Command failed: %v\n", err)
		}
	}
}

// warmup runs the independent startup tasks with bounded concurrency:
// the profile fetch (followed by a fact prefetch once the favorite is
// known) and the journal schema check. Failures are retryable later from
// the prompt, never fatal.
func (s *Session) warmup(ctx context.Context) {
	warmupCtx, cancel := context.WithTimeout(ctx, constants.WarmupConfig.Timeout)
	defer cancel()

	p := pool.New().WithMaxGoroutines(constants.WarmupConfig.MaxConcurrent)

	p.Go(func() {
		result := s.deps.Client.FetchProfile(warmupCtx)
		if !result.OK {
			s.logger.Warn("Warmup profile fetch failed",
				zap.Int("status", result.Status),
				zap.String("error", result.Err),
			)
			fmt.Fprintln(s.out, "Could not load your profile - run 'profile' to retry.")
			return
		}

		profile := result.Data
		s.deps.State.ApplyProfile(&profile)
		if err := s.deps.Editor.Reset(profile.GetFavoriteMovie()); err != nil {
			s.logger.Debug("Skipped editor reset during warmup", zap.Error(err))
		}
		fmt.Fprintf(s.out, "Welcome back, %s.\n", profile.DisplayName())

		if profile.HasFavoriteMovie() {
			s.prefetchFact(warmupCtx, profile.ID, profile.GetFavoriteMovie())
		}
	})

	if s.journal != nil {
		p.Go(func() {
			if err := s.journal.EnsureSchema(warmupCtx); err != nil {
				s.logger.Warn("Fact journal unavailable", zap.Error(err))
			}
		})
	}

	p.Wait()
}

func (s *Session) prefetchFact(ctx context.Context, userID, movie string) {
	key := command.FactCacheKey(userID, movie)
	result := s.deps.Cache.Read(ctx, key, func(ctx context.Context) api.Result[domain.MovieFact] {
		return s.deps.Client.FetchFact(ctx)
	})
	if !result.OK {
		s.logger.Debug("Fact prefetch failed",
			zap.Int("status", result.Status),
			zap.String("error", result.Err),
		)
	}
}
