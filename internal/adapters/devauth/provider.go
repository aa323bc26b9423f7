// Package devauth provides an in-process identity provider for local
// development and tests. Accounts live in memory, passwords are bcrypt hashed
// and identity tokens are real RS256 JWTs verified the same way production
// tokens are.
package devauth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"strings"
	"sync"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/google/uuid"
	"github.com/target/jobboard/internal/adapters/idtoken"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	apperrors "github.com/target/jobboard/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// Messages mirror the identity service's error codes so the UI behaves the
// same in both modes.
const (
	msgEmailExists        = "EMAIL_EXISTS"
	msgInvalidEmail       = "INVALID_EMAIL"
	msgWeakPassword       = "WEAK_PASSWORD : Password should be at least 6 characters"
	msgInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	msgUserNotFound       = "USER_NOT_FOUND"

	minPasswordLen = 6
	keyID          = "devauth-1"
)

// uidNamespace scopes the deterministic uids derived from email addresses.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://jobboard.local/devauth"))

// Config controls the dev identity provider.
type Config struct {
	Issuer   string
	Audience string
	TokenTTL time.Duration // default 1h when zero
	// Key signs identity tokens. A 2048-bit key is generated when nil.
	Key *rsa.PrivateKey
	// Now overrides the clock, for tests.
	Now func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

type account struct {
	uid          string
	email        string
	displayName  string
	passwordHash []byte
	claims       map[string]any
}

// Provider implements ports.IdentityProvider in memory.
type Provider struct {
	mu       sync.RWMutex
	byUID    map[string]*account
	byEmail  map[string]*account
	signer   jose.Signer
	verifier *gooidc.IDTokenVerifier
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
	cost     int
}

// NewProvider constructs a dev identity provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("dev auth: issuer is required")
	}
	if cfg.Audience == "" {
		return nil, fmt.Errorf("dev auth: audience is required")
	}
	key := cfg.Key
	if key == nil {
		var err error
		if key, err = rsa.GenerateKey(rand.Reader, 2048); err != nil {
			return nil, fmt.Errorf("dev auth: generate signing key: %w", err)
		}
	}
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: key},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", keyID),
	)
	if err != nil {
		return nil, fmt.Errorf("dev auth: new signer: %w", err)
	}

	p := &Provider{
		byUID:    map[string]*account{},
		byEmail:  map[string]*account{},
		signer:   signer,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.TokenTTL,
		now:      cfg.Now,
		cost:     cfg.BcryptCost,
	}
	if p.ttl <= 0 {
		p.ttl = time.Hour
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.cost == 0 {
		p.cost = bcrypt.DefaultCost
	}

	keySet := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	p.verifier = gooidc.NewVerifier(cfg.Issuer, keySet, &gooidc.Config{
		ClientID: cfg.Audience,
		Now:      p.now,
	})
	return p, nil
}

// UIDForEmail returns the uid an account with this email gets. Uids are
// stable across restarts so seeded data keeps pointing at the same users.
func UIDForEmail(email string) string {
	return uuid.NewSHA1(uidNamespace, []byte(normalizeEmail(email))).String()
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// CreateUser registers an account.
func (p *Provider) CreateUser(_ context.Context, u domainauth.NewUser) (string, error) {
	email := normalizeEmail(u.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.Upstream(msgInvalidEmail, nil)
	}
	if len(u.Password) < minPasswordLen {
		return "", apperrors.Upstream(msgWeakPassword, nil)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.byEmail[email]; exists {
		return "", apperrors.Upstream(msgEmailExists, nil)
	}
	acc := &account{
		uid:          UIDForEmail(email),
		email:        email,
		displayName:  strings.TrimSpace(u.DisplayName),
		passwordHash: hash,
		claims:       map[string]any{},
	}
	p.byUID[acc.uid] = acc
	p.byEmail[email] = acc
	return acc.uid, nil
}

// SetRole stores the role custom claim.
func (p *Provider) SetRole(_ context.Context, uid string, role domainauth.Role) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	acc, ok := p.byUID[uid]
	if !ok {
		return apperrors.Upstream(msgUserNotFound, nil)
	}
	acc.claims["role"] = string(role)
	return nil
}

// GetUser returns the account record.
func (p *Provider) GetUser(_ context.Context, uid string) (domainauth.User, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	acc, ok := p.byUID[uid]
	if !ok {
		return domainauth.User{}, apperrors.Upstream(msgUserNotFound, nil)
	}
	return domainauth.User{UID: acc.uid, Email: acc.email, DisplayName: acc.displayName}, nil
}

// DeleteUser removes the account. Unknown uids are ignored.
func (p *Provider) DeleteUser(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acc, ok := p.byUID[uid]; ok {
		delete(p.byEmail, acc.email)
		delete(p.byUID, uid)
	}
	return nil
}

// SignInWithPassword checks credentials and mints an identity token.
func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (string, error) {
	p.mu.RLock()
	acc, ok := p.byEmail[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)) != nil {
		return "", apperrors.Upstream(msgInvalidCredentials, nil)
	}
	return p.IssueToken(acc.uid)
}

// IssueToken mints a signed identity token for uid carrying its custom claims.
func (p *Provider) IssueToken(uid string) (string, error) {
	p.mu.RLock()
	acc, ok := p.byUID[uid]
	var custom map[string]any
	if ok {
		custom = make(map[string]any, len(acc.claims)+2)
		for k, v := range acc.claims {
			custom[k] = v
		}
		custom["email"] = acc.email
		custom["name"] = acc.displayName
	}
	p.mu.RUnlock()
	if !ok {
		return "", apperrors.Upstream(msgUserNotFound, nil)
	}

	now := p.now()
	std := jwt.Claims{
		Issuer:   p.issuer,
		Subject:  uid,
		Audience: jwt.Audience{p.audience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(p.ttl)),
	}
	tok, err := jwt.Signed(p.signer).Claims(std).Claims(custom).Serialize()
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// VerifyIDToken verifies signature, issuer, audience and expiry.
func (p *Provider) VerifyIDToken(ctx context.Context, raw string) (domainauth.Claims, error) {
	tok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.Claims{}, apperrors.Upstream("Invalid or expired identity token.", err)
	}
	return idtoken.ToClaims(tok)
}
