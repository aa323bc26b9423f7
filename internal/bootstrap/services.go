package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard/config"
	redisadapter "github.com/target/jobboard/internal/adapters/redis"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/observability/statsd"
	"github.com/target/jobboard/internal/ports"
	"github.com/target/jobboard/internal/service"
)

// ServiceContainer holds all application services and the resources they own.
type ServiceContainer struct {
	Auth         *service.AuthService
	Jobs         *service.JobService
	Applications *service.ApplicationService
	Identity     ports.IdentityProvider
	Flashes      ports.FlashStore
	Store        core.Store
	Redis        redis.UniversalClient
	Metrics      *statsd.Client // nil when metrics are disabled
}

// Close releases the store, Redis and metrics connections.
func (c *ServiceContainer) Close() error {
	var errs []error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := c.Metrics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close metrics: %w", err))
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	Store       core.Store
	RedisClient redis.UniversalClient
	Provider    ports.IdentityProvider
	Clock       core.Clock
	Logger      *slog.Logger
}

// NewServices builds the domain services over already-opened infrastructure.
func NewServices(deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("services: config is required")
	}
	if deps.Store == nil {
		return nil, errors.New("services: store is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = core.SystemClock
	}

	auth, err := BuildAuthService(AuthDeps{
		Auth:        deps.Config.Auth,
		Session:     deps.Config.Session,
		Provider:    deps.Provider,
		RedisClient: deps.RedisClient,
		Clock:       clock,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Auth: auth,
		Jobs: service.NewJobService(service.JobServiceOptions{
			Jobs:         deps.Store.Jobs(),
			Applications: deps.Store.Applications(),
			Clock:        clock,
		}),
		Applications: service.NewApplicationService(service.ApplicationServiceOptions{
			Jobs:         deps.Store.Jobs(),
			Applications: deps.Store.Applications(),
			Identity:     deps.Provider,
		}),
		Identity: deps.Provider,
		Flashes:  redisadapter.NewFlashStore(deps.RedisClient, deps.Config.Session.FlashTTL),
		Store:    deps.Store,
		Redis:    deps.RedisClient,
	}, nil
}

// OpenServices connects to the store, Redis and the identity provider and
// builds the services over them. Connections opened before a failure are
// closed.
func OpenServices(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*ServiceContainer, error) {
	if cfg == nil {
		return nil, errors.New("services: config is required")
	}
	clock := core.SystemClock

	store, err := OpenStore(ctx, StoreConfig{
		Store:    cfg.Store,
		Postgres: cfg.Postgres,
		Clock:    clock,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	redisClient, err := ConnectRedis(DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("connect redis: %w", err), store.Close())
	}

	provider, err := BuildIdentityProvider(ctx, cfg.Auth, logger)
	if err != nil {
		return nil, errors.Join(err, store.Close(), redisClient.Close())
	}

	services, err := NewServices(ServiceDeps{
		Config:      cfg,
		Store:       store,
		RedisClient: redisClient,
		Provider:    provider,
		Clock:       clock,
		Logger:      logger,
	})
	if err != nil {
		return nil, errors.Join(err, store.Close(), redisClient.Close())
	}
	services.Metrics = BuildMetrics(ctx, cfg.Metrics, logger)
	return services, nil
}
