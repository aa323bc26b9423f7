package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/bootstrap"
	"github.com/target/jobboard/internal/devseed"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	if levelErr := bootstrap.SetLogLevel(cfg.LogLevel); levelErr != nil {
		logger.WarnContext(ctx, "invalid LOG_LEVEL, using info", "error", levelErr)
	}

	logStartupInfo(ctx, logger, &cfg)

	if err = bootstrap.ValidateConfig(&cfg); err != nil {
		return err
	}

	services, err := bootstrap.OpenServices(ctx, &cfg, logger)
	if err != nil {
		return err
	}

	if err = seedIfConfigured(ctx, &cfg, services, logger); err != nil {
		if closeErr := services.Close(); closeErr != nil {
			logger.ErrorContext(ctx, "close services after seed failure", "error", closeErr)
		}
		return err
	}

	return bootstrap.RunWithShutdown(ctx, bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting jobboard",
		"addr", cfg.HTTP.Addr,
		"store", cfg.Store.Driver,
		"auth_mode", cfg.Auth.Mode,
		"dev", cfg.IsDev,
	)
}

// seedIfConfigured applies DEV_SEED_FILE. The mock identity provider keeps
// accounts in memory, so the fixture is replayed on every start.
func seedIfConfigured(ctx context.Context, cfg *config.AppConfig, services *bootstrap.ServiceContainer, logger *slog.Logger) error {
	if cfg.DevSeedFile == "" {
		return nil
	}
	if cfg.Auth.Mode != config.AuthModeMock {
		logger.WarnContext(ctx, "DEV_SEED_FILE ignored outside mock auth mode", "file", cfg.DevSeedFile)
		return nil
	}

	fx, err := devseed.LoadFile(cfg.DevSeedFile)
	if err != nil {
		return err
	}
	seeder := &devseed.Seeder{
		Auth:     services.Auth,
		Identity: services.Identity,
		Jobs:     services.Jobs,
		Logger:   logger,
	}
	if _, err := seeder.Run(ctx, fx); err != nil {
		return fmt.Errorf("dev seed: %w", err)
	}
	return nil
}
