package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tech-selector/internal/config"
	"tech-selector/internal/repository"
	"tech-selector/internal/server"
	"tech-selector/internal/service"
	"tech-selector/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/config.yml", "path to the YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting Technology Selector...",
		zap.String("config", *configPath),
		zap.String("store", cfg.Store.Driver))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}

	logger.Info("Technology Selector stopped.")
}

// run serves until ctx is cancelled or a component fails.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := repository.NewEvaluationStore(cfg.Store.Driver, cfg.Store.DSN, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize evaluation store: %w", err)
	}
	defer store.Close()

	sessions := session.NewManager(cfg.Session.IdleTimeout, logger)
	evaluator := service.NewEvaluator(store, logger)
	srv := server.NewServer(cfg, evaluator, sessions, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	g.Go(func() error {
		sessions.Run(ctx, cfg.Session.SweepInterval)
		return nil
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	return zcfg.Build()
}
