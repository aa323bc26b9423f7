package httpx

import (
	"context"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// flashKeyCtx carries the browser's flash queue key.
type flashKeyCtx struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
// Maintained for convenience; prefer GetUserSessionFromContext when you need presence info.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// userID returns the logged-in user's uid or "".
func userID(ctx context.Context) string {
	if s := GetSessionFromContext(ctx); s != nil {
		return s.UserID
	}
	return ""
}

func setFlashKeyInContext(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, flashKeyCtx{}, key)
}

// flashKeyFromContext returns the flash queue key set by the Flashes middleware.
func flashKeyFromContext(ctx context.Context) string {
	if key, ok := ctx.Value(flashKeyCtx{}).(string); ok {
		return key
	}
	return ""
}
