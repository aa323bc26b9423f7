package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/target/jobboard/config"
)

// RunConfig contains everything needed to serve until shutdown.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunWithShutdown serves HTTP until SIGINT/SIGTERM or a server error, then
// drains in-flight requests and closes the service container.
func RunWithShutdown(ctx context.Context, cfg RunConfig) error {
	if cfg.Config == nil || cfg.Services == nil {
		return errors.New("run: config and services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	}, errCh)
	if err != nil {
		return errors.Join(err, cfg.Services.Close())
	}

	return waitForShutdown(shutdownConfig{
		ctx:        sigCtx,
		errCh:      errCh,
		httpServer: server,
		services:   cfg.Services,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	errCh      <-chan error
	httpServer *http.Server
	services   *ServiceContainer
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	var runErr error
	select {
	case <-cfg.ctx.Done():
		cfg.logger.Info("shutting down services...")
	case runErr = <-cfg.errCh:
		cfg.logger.Error("service error", "error", runErr)
	}

	if stopErr := gracefulStop(cfg); stopErr != nil {
		cfg.logger.Error("graceful stop failed", "error", stopErr)
		return errors.Join(runErr, stopErr)
	}
	return runErr
}

// gracefulStop drains the HTTP server before releasing connections the
// handlers depend on.
func gracefulStop(cfg shutdownConfig) error {
	// The signal context is already done; shut down on a fresh one.
	shutdownErr := ShutdownHTTPServer(context.WithoutCancel(cfg.ctx), cfg.httpServer, cfg.logger)
	var closeErr error
	if cfg.services != nil {
		closeErr = cfg.services.Close()
	}
	return errors.Join(shutdownErr, closeErr)
}
