package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/target/jobboard/config"
	httpx "github.com/target/jobboard/internal/http"
)

const shutdownWaitTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// firebaseWebConfig returns the browser SDK settings, empty unless Firebase
// is the active identity provider.
func firebaseWebConfig(cfg config.AuthConfig) httpx.FirebaseWebConfig {
	if cfg.Mode != config.AuthModeFirebase {
		return httpx.FirebaseWebConfig{}
	}
	return httpx.FirebaseWebConfig{
		APIKey:     cfg.Firebase.APIKey,
		AuthDomain: cfg.Firebase.AuthDomain,
		ProjectID:  cfg.Firebase.ProjectID,
	}
}

// BuildHTTPHandler builds the router over the service container.
func BuildHTTPHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	if cfg == nil || cfg.Config == nil || cfg.Services == nil {
		return nil, errors.New("http: config and services are required")
	}
	return httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth,
		Jobs:         cfg.Services.Jobs,
		Applications: cfg.Services.Applications,
		Flashes:      cfg.Services.Flashes,
		Store:        cfg.Services.Store,
		Firebase:     firebaseWebConfig(cfg.Config.Auth),
		CookieDomain: cfg.Config.HTTP.CookieDomain,
		IsDev:        cfg.Config.IsDev,
		Metrics:      metricsSink(cfg.Services.Metrics),
		Logger:       cfg.Logger,
	})
}

// StartHTTPServer creates and starts the HTTP server. Listen failures are
// reported on errCh. Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig, errCh chan<- error) (*http.Server, error) {
	handler, err := BuildHTTPHandler(cfg)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return startServer(logger, handler, cfg.Config.HTTP.Addr, errCh)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string, errCh chan<- error) (*http.Server, error) {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	server.Addr = ln.Addr().String()

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", serveErr)
			if errCh != nil {
				errCh <- serveErr
			}
		}
	}()

	return server, nil
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWaitTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
