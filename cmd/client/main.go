package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kapu/cinefact-client-go/internal/app"
	"github.com/kapu/cinefact-client-go/internal/config"
	"github.com/kapu/cinefact-client-go/internal/util"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Cinefact client starting",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("redis_tier", cfg.Redis.Enabled()),
		zap.Bool("fact_journal", cfg.Postgres.Enabled()),
	)

	container, err := app.Build(context.Background(), cfg, logger, os.Stdin, os.Stdout)
	if err != nil {
		logger.Error("Failed to assemble client services", zap.Error(err))
		os.Exit(1)
	}
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- container.Session.Run(ctx)
	}()

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			logger.Error("Session error", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
}
