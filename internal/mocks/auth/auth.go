// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*FakeIdentityProvider)(nil)
	_ ports.SessionStore     = (*MemorySessionStore)(nil)
	_ ports.FlashStore       = (*MemoryFlashStore)(nil)
	_ ports.RoleMapper       = (*StaticRoleMapper)(nil)
)

type fakeAccount struct {
	user     domainauth.User
	password string
	role     domainauth.Role
}

// FakeIdentityProvider simulates the identity provider with deterministic uids
// and tokens. Tokens have the form "token-<uid>".
type FakeIdentityProvider struct {
	CreateUserFunc func(ctx context.Context, u domainauth.NewUser) (string, error)
	SetRoleFunc    func(ctx context.Context, uid string, role domainauth.Role) error

	// Deleted records uids passed to DeleteUser, in call order.
	Deleted []string

	mu       sync.Mutex
	accounts map[string]*fakeAccount
	nextID   int
}

// NewFakeIdentityProvider creates an empty FakeIdentityProvider.
func NewFakeIdentityProvider() *FakeIdentityProvider {
	return &FakeIdentityProvider{accounts: make(map[string]*fakeAccount)}
}

// AddUser seeds an account with a role and returns its uid.
func (f *FakeIdentityProvider) AddUser(u domainauth.NewUser, role domainauth.Role) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(u, role)
}

func (f *FakeIdentityProvider) addLocked(u domainauth.NewUser, role domainauth.Role) string {
	f.nextID++
	uid := fmt.Sprintf("uid-%d", f.nextID)
	f.accounts[uid] = &fakeAccount{
		user:     domainauth.User{UID: uid, Email: strings.ToLower(u.Email), DisplayName: u.DisplayName},
		password: u.Password,
		role:     role,
	}
	return uid
}

// TokenFor returns the identity token the fake accepts for uid.
func (f *FakeIdentityProvider) TokenFor(uid string) string { return "token-" + uid }

func (f *FakeIdentityProvider) CreateUser(ctx context.Context, u domainauth.NewUser) (string, error) {
	if f.CreateUserFunc != nil {
		return f.CreateUserFunc(ctx, u)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if strings.EqualFold(a.user.Email, u.Email) {
			return "", apperrors.Upstream("EMAIL_EXISTS", nil)
		}
	}
	return f.addLocked(u, ""), nil
}

func (f *FakeIdentityProvider) SetRole(ctx context.Context, uid string, role domainauth.Role) error {
	if f.SetRoleFunc != nil {
		return f.SetRoleFunc(ctx, uid, role)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[uid]
	if !ok {
		return apperrors.Upstream("USER_NOT_FOUND", nil)
	}
	a.role = role
	return nil
}

func (f *FakeIdentityProvider) VerifyIDToken(_ context.Context, idToken string) (domainauth.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, ok := strings.CutPrefix(idToken, "token-")
	if !ok {
		return domainauth.Claims{}, errors.New("malformed token")
	}
	a, ok := f.accounts[uid]
	if !ok {
		return domainauth.Claims{}, errors.New("unknown token subject")
	}
	raw := map[string]any{"sub": uid, "email": a.user.Email, "name": a.user.DisplayName}
	if a.role != "" {
		raw["role"] = string(a.role)
	}
	return domainauth.Claims{
		UID:       uid,
		Email:     a.user.Email,
		Name:      a.user.DisplayName,
		Raw:       raw,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (f *FakeIdentityProvider) GetUser(_ context.Context, uid string) (domainauth.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[uid]
	if !ok {
		return domainauth.User{}, apperrors.Upstream("USER_NOT_FOUND", nil)
	}
	return a.user, nil
}

func (f *FakeIdentityProvider) DeleteUser(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, uid)
	delete(f.accounts, uid)
	return nil
}

func (f *FakeIdentityProvider) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for uid, a := range f.accounts {
		if strings.EqualFold(a.user.Email, email) && a.password == password {
			return f.TokenFor(uid), nil
		}
	}
	return "", apperrors.Upstream("INVALID_LOGIN_CREDENTIALS", nil)
}

// MemorySessionStore is an in-memory session store for unit tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
	}
}

func (m *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// MemoryFlashStore queues flashes in memory.
type MemoryFlashStore struct {
	mu     sync.Mutex
	queues map[string][]domainauth.Flash
}

// NewMemoryFlashStore creates an empty MemoryFlashStore.
func NewMemoryFlashStore() *MemoryFlashStore {
	return &MemoryFlashStore{queues: make(map[string][]domainauth.Flash)}
}

func (m *MemoryFlashStore) Push(_ context.Context, key string, f domainauth.Flash) error {
	if key == "" {
		return errors.New("flash key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[key] = append(m.queues[key], f)
	return nil
}

func (m *MemoryFlashStore) Pop(_ context.Context, key string) ([]domainauth.Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queues[key]
	delete(m.queues, key)
	return out, nil
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}

// StaticRoleMapper reads the role from a top-level string claim.
type StaticRoleMapper struct {
	Claim string
}

func (m StaticRoleMapper) Map(claims domainauth.Claims) domainauth.Role {
	key := m.Claim
	if key == "" {
		key = "role"
	}
	s, _ := claims.Raw[key].(string)
	role, ok := domainauth.ParseRole(s)
	if !ok {
		return ""
	}
	return role
}
