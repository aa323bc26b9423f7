package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/adapters/authroles"
	"github.com/target/jobboard/internal/adapters/devauth"
	"github.com/target/jobboard/internal/adapters/identitytoolkit"
	redisadapter "github.com/target/jobboard/internal/adapters/redis"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/ports"
	"github.com/target/jobboard/internal/service"
)

// AuthDeps contains the dependencies for the auth service.
type AuthDeps struct {
	Auth        config.AuthConfig
	Session     config.SessionConfig
	Provider    ports.IdentityProvider
	RedisClient redis.UniversalClient
	Clock       core.Clock
	Logger      *slog.Logger
}

// BuildIdentityProvider creates the identity provider for the configured
// auth mode.
//
//nolint:ireturn // the provider is chosen at runtime.
func BuildIdentityProvider(ctx context.Context, cfg config.AuthConfig, logger *slog.Logger) (ports.IdentityProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			Issuer:   cfg.DevAuth.Issuer,
			Audience: cfg.DevAuth.Audience,
			TokenTTL: cfg.DevAuth.TokenTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		if logger != nil {
			logger.WarnContext(ctx, "using in-memory dev identity provider", "issuer", cfg.DevAuth.Issuer)
		}
		return prov, nil

	case config.AuthModeFirebase:
		client, err := identitytoolkit.NewClient(ctx, identitytoolkit.Config{
			ProjectID:       cfg.Firebase.ProjectID,
			APIKey:          cfg.Firebase.APIKey,
			CredentialsJSON: cfg.Firebase.CredentialsJSON,
			Emulator:        cfg.Firebase.UsesEmulator(),
			IdentityURL:     cfg.Firebase.IdentityEndpoint(),
			TokenURL:        cfg.Firebase.TokenURL,
			JWKSURL:         cfg.Firebase.JWKSURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build firebase identity client: %w", err)
		}
		if logger != nil {
			logger.InfoContext(ctx, "firebase identity provider configured",
				"project_id", cfg.Firebase.ProjectID,
				"emulator", cfg.Firebase.UsesEmulator())
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported auth mode %q", cfg.Mode)
	}
}

// BuildAuthService wires the identity provider, role mapper and Redis session
// store into an AuthService.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	if deps.Provider == nil {
		return nil, fmt.Errorf("auth service: identity provider is required")
	}
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("auth service: redis client is required for sessions")
	}

	roles, err := authroles.NewClaimRoleMapper(deps.Auth.RoleClaim)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: deps.Provider,
		Sessions: redisadapter.NewSessionStore(deps.RedisClient),
		Policy: service.AuthPolicy{
			Roles:      roles,
			SessionTTL: deps.Session.TTL,
			Clock:      deps.Clock,
		},
	}), nil
}
