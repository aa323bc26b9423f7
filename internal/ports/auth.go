// Package ports defines interfaces (hexagonal ports) for identity, session and
// flash behavior. Implementations live in internal/adapters; orchestration in
// internal/service.
package ports

import (
	"context"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// IdentityProvider is the external service that owns user accounts and issues
// signed identity tokens.
type IdentityProvider interface {
	// CreateUser registers an account and returns its uid.
	CreateUser(ctx context.Context, u domainauth.NewUser) (string, error)
	// SetRole stores the role as a custom claim on the account.
	SetRole(ctx context.Context, uid string, role domainauth.Role) error
	// VerifyIDToken checks the token signature, issuer, audience and expiry.
	VerifyIDToken(ctx context.Context, idToken string) (domainauth.Claims, error)
	GetUser(ctx context.Context, uid string) (domainauth.User, error)
	DeleteUser(ctx context.Context, uid string) error
	// SignInWithPassword exchanges credentials for an identity token.
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// FlashStore queues one-shot messages for the next page a browser renders.
// Pop returns the queued messages in insertion order and clears them.
type FlashStore interface {
	Push(ctx context.Context, key string, f domainauth.Flash) error
	Pop(ctx context.Context, key string) ([]domainauth.Flash, error)
}

// RoleMapper extracts the application role from verified token claims.
type RoleMapper interface {
	Map(claims domainauth.Claims) domainauth.Role
}
