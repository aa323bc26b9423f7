package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/jobboard/internal/core"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/ports"
)

// User-facing authentication messages.
const (
	MsgFillAllFields  = "Please fill out all fields."
	MsgTokenMissing   = "Authentication token missing."
	msgWrongAccountFm = "Access denied. This is not a %s account."
)

// DefaultSessionTTL is used when AuthPolicy.SessionTTL is zero.
const DefaultSessionTTL = 12 * time.Hour

// AuthPolicy holds session settings and the role mapping for AuthService.
type AuthPolicy struct {
	Roles      ports.RoleMapper
	SessionTTL time.Duration
	Clock      core.Clock
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Sessions ports.SessionStore
	Policy   AuthPolicy
}

// AuthService orchestrates registration and login by coordinating the
// identity provider, role mapping, and session persistence.
type AuthService struct {
	provider ports.IdentityProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	ttl      time.Duration
	clock    core.Clock
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Provider == nil {
		panic("IdentityProvider is required")
	}
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Policy.Roles == nil {
		panic("RoleMapper is required")
	}
	ttl := opts.Policy.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	clock := opts.Policy.Clock
	if clock == nil {
		clock = core.SystemClock
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Policy.Roles,
		ttl:      ttl,
		clock:    clock,
	}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates an identity-provider account and tags it with role.
// If tagging fails the new account is deleted again.
func (s *AuthService) Register(ctx context.Context, role domainauth.Role, in RegisterInput) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("register: unknown role %q", role)
	}
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return "", apperrors.Validation(MsgFillAllFields)
	}

	uid, err := s.provider.CreateUser(ctx, domainauth.NewUser{
		Email:       email,
		Password:    in.Password,
		DisplayName: username,
	})
	if err != nil {
		return "", fmt.Errorf("create user: %w", asUpstream(err))
	}

	if err := s.provider.SetRole(ctx, uid, role); err != nil {
		setErr := fmt.Errorf("set role: %w", asUpstream(err))
		if delErr := s.provider.DeleteUser(ctx, uid); delErr != nil {
			return "", errors.Join(setErr, fmt.Errorf("delete user %s: %w", uid, delErr))
		}
		return "", setErr
	}
	return uid, nil
}

// LoginInput carries the login form. IDToken wins over Email/Password.
// PreviousSessionID, when set, is destroyed once the new session exists.
type LoginInput struct {
	IDToken           string
	Email             string
	Password          string
	PreviousSessionID string
}

// Login verifies the caller's identity token, checks that the account carries
// role and persists a fresh session.
func (s *AuthService) Login(ctx context.Context, role domainauth.Role, in LoginInput) (*domainauth.Session, error) {
	token := strings.TrimSpace(in.IDToken)
	if token == "" && strings.TrimSpace(in.Email) != "" && in.Password != "" {
		t, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(in.Email), in.Password)
		if err != nil {
			return nil, fmt.Errorf("password sign-in: %w", asUpstream(err))
		}
		token = t
	}
	if token == "" {
		return nil, apperrors.Validation(MsgTokenMissing)
	}

	claims, err := s.provider.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", asUpstream(err))
	}
	if s.roles.Map(claims) != role {
		return nil, apperrors.Forbidden(fmt.Sprintf(msgWrongAccountFm, role.Title()))
	}

	name := claims.Name
	if name == "" {
		name = claims.Email
	}
	session := domainauth.Session{
		ID:          generateSessionID(),
		UserID:      claims.UID,
		Role:        role,
		DisplayName: name,
		Email:       claims.Email,
		ExpiresAt:   s.clock.Now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if in.PreviousSessionID != "" {
		if err := s.sessions.Delete(ctx, in.PreviousSessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete previous session", "error", err)
		}
	}
	return &session, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.clock.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// asUpstream keeps typed errors and turns anything else into an upstream error
// carrying the provider's text, so users see what the provider said.
func asUpstream(err error) error {
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Upstream(err.Error(), err)
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
