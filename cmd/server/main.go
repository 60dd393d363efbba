package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nasu-match/internal/app"
	"nasu-match/internal/config"
	"nasu-match/internal/database/migration"
	"nasu-match/internal/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(zap.String("app", cfg.App.AppName), zap.String("env", cfg.App.Environment))

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return fmt.Errorf("invalid HTTP port: %w", err)
	}

	bootstrap, cleanup, err := startup(cfg, log, migrate)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn("cleanup error", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr), zap.String("store", cfg.Database.Driver))
		errCh <- bootstrap.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("server error", zap.Error(err))
			return err
		}
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := bootstrap.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Warn("shutdown error", zap.Error(err))
		}
	}
	return nil
}

// startup bootstraps the app and applies migrations. When migrations fail the
// container is closed before returning.
func startup(cfg config.Config, log *zap.Logger, migrateFn func(context.Context, *app.Container, *zap.Logger) error) (*app.App, func() error, error) {
	bootstrap, cleanup, err := app.Bootstrap(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap app: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := migrateFn(ctx, bootstrap.Container, log.Named("migration")); err != nil {
		if cerr := cleanup(); cerr != nil {
			log.Warn("cleanup error", zap.Error(cerr))
		}
		return nil, nil, fmt.Errorf("migration failed: %w", err)
	}
	return bootstrap, cleanup, nil
}

func migrate(ctx context.Context, c *app.Container, log *zap.Logger) error {
	if c.DB == nil {
		return nil
	}
	return migration.Runner{Logger: log}.Run(ctx, c.DB.SQLDB())
}
