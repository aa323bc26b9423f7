// Package identitytoolkit talks to Firebase Authentication through the
// Google Identity Toolkit REST API and verifies Firebase identity tokens.
package identitytoolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/target/jobboard/internal/adapters/idtoken"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	apperrors "github.com/target/jobboard/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

const (
	defaultIdentityURL = "https://identitytoolkit.googleapis.com"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultJWKSURL     = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	issuerPrefix       = "https://securetoken.google.com/"
)

var adminScopes = []string{
	"https://www.googleapis.com/auth/identitytoolkit",
	"https://www.googleapis.com/auth/cloud-platform",
}

// Config holds Firebase project settings.
type Config struct {
	ProjectID string
	APIKey    string
	// CredentialsJSON is a service account key. When empty, admin calls use
	// Application Default Credentials unless Emulator is set.
	CredentialsJSON string
	// Emulator sends admin calls without OAuth credentials. Only the Firebase
	// auth emulator accepts them.
	Emulator bool

	IdentityURL string
	TokenURL    string
	JWKSURL     string
	// Issuer overrides the expected token issuer, for tests.
	Issuer string

	HTTPClient *http.Client // Optional, defaults to a 15s timeout client
}

// Client implements ports.IdentityProvider against Firebase Authentication.
type Client struct {
	projectID   string
	apiKey      string
	identityURL string
	public      *http.Client
	admin       *http.Client
	verifier    *gooidc.IDTokenVerifier
}

type serviceAccount struct {
	ClientEmail  string `json:"client_email"`
	PrivateKey   string `json:"private_key"`
	PrivateKeyID string `json:"private_key_id"`
	TokenURI     string `json:"token_uri"`
}

// NewClient builds a client. ctx scopes the background JWKS refreshes.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase project ID is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("firebase API key is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	identityURL := strings.TrimRight(firstNonEmpty(cfg.IdentityURL, defaultIdentityURL), "/")

	admin, err := adminClient(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	keySet := gooidc.NewRemoteKeySet(gooidc.ClientContext(ctx, httpClient), firstNonEmpty(cfg.JWKSURL, defaultJWKSURL))
	issuer := firstNonEmpty(cfg.Issuer, issuerPrefix+cfg.ProjectID)
	verifier := gooidc.NewVerifier(issuer, keySet, &gooidc.Config{ClientID: cfg.ProjectID})

	return &Client{
		projectID:   cfg.ProjectID,
		apiKey:      cfg.APIKey,
		identityURL: identityURL,
		public:      httpClient,
		admin:       admin,
		verifier:    verifier,
	}, nil
}

// adminAuth names how admin (project-scoped) calls are authorized.
type adminAuth string

const (
	adminAuthServiceAccount adminAuth = "service_account"
	adminAuthEmulator       adminAuth = "emulator"
	adminAuthDefault        adminAuth = "application_default"
)

func selectAdminAuth(cfg Config) adminAuth {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return adminAuthServiceAccount
	case cfg.Emulator:
		return adminAuthEmulator
	default:
		return adminAuthDefault
	}
}

func adminClient(ctx context.Context, cfg Config, httpClient *http.Client) (*http.Client, error) {
	tokenCtx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	switch selectAdminAuth(cfg) {
	case adminAuthServiceAccount:
		var sa serviceAccount
		if err := json.Unmarshal([]byte(cfg.CredentialsJSON), &sa); err != nil {
			return nil, fmt.Errorf("parse firebase service account: %w", err)
		}
		if sa.ClientEmail == "" || sa.PrivateKey == "" {
			return nil, errors.New("firebase service account needs client_email and private_key")
		}
		jc := &jwt.Config{
			Email:        sa.ClientEmail,
			PrivateKey:   []byte(sa.PrivateKey),
			PrivateKeyID: sa.PrivateKeyID,
			Scopes:       adminScopes,
			TokenURL:     firstNonEmpty(cfg.TokenURL, sa.TokenURI, defaultTokenURL),
		}
		return jc.Client(tokenCtx), nil
	case adminAuthEmulator:
		return httpClient, nil
	default:
		client, err := google.DefaultClient(tokenCtx, adminScopes...)
		if err != nil {
			return nil, fmt.Errorf("find application default credentials: %w", err)
		}
		return client, nil
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// CreateUser registers an account and returns its uid (localId).
func (c *Client) CreateUser(ctx context.Context, u domainauth.NewUser) (string, error) {
	req := map[string]any{
		"email":       u.Email,
		"password":    u.Password,
		"displayName": u.DisplayName,
	}
	var resp struct {
		LocalID string `json:"localId"`
	}
	if err := c.call(ctx, c.admin, c.projectPath("accounts"), req, &resp); err != nil {
		return "", err
	}
	if resp.LocalID == "" {
		return "", apperrors.Upstream("identity service returned no user id", nil)
	}
	return resp.LocalID, nil
}

// SetRole replaces the account's custom claims with {"role": role}.
func (c *Client) SetRole(ctx context.Context, uid string, role domainauth.Role) error {
	attrs, err := json.Marshal(map[string]string{"role": string(role)})
	if err != nil {
		return fmt.Errorf("marshal custom claims: %w", err)
	}
	req := map[string]any{
		"localId":          uid,
		"customAttributes": string(attrs),
	}
	return c.call(ctx, c.admin, c.projectPath("accounts:update"), req, nil)
}

// GetUser looks up the account by uid.
func (c *Client) GetUser(ctx context.Context, uid string) (domainauth.User, error) {
	req := map[string]any{"localId": []string{uid}}
	var resp struct {
		Users []struct {
			LocalID     string `json:"localId"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName"`
		} `json:"users"`
	}
	if err := c.call(ctx, c.admin, c.projectPath("accounts:lookup"), req, &resp); err != nil {
		return domainauth.User{}, err
	}
	if len(resp.Users) == 0 {
		return domainauth.User{}, apperrors.Upstream("USER_NOT_FOUND", nil)
	}
	u := resp.Users[0]
	return domainauth.User{UID: u.LocalID, Email: u.Email, DisplayName: u.DisplayName}, nil
}

// DeleteUser removes the account.
func (c *Client) DeleteUser(ctx context.Context, uid string) error {
	return c.call(ctx, c.admin, c.projectPath("accounts:delete"), map[string]any{"localId": uid}, nil)
}

// SignInWithPassword exchanges email and password for an identity token.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	req := map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var resp struct {
		IDToken string `json:"idToken"`
	}
	path := "/v1/accounts:signInWithPassword?" + url.Values{"key": {c.apiKey}}.Encode()
	if err := c.call(ctx, c.public, path, req, &resp); err != nil {
		return "", err
	}
	if resp.IDToken == "" {
		return "", apperrors.Upstream("identity service returned no token", nil)
	}
	return resp.IDToken, nil
}

// VerifyIDToken checks the token against the project's signing keys.
func (c *Client) VerifyIDToken(ctx context.Context, raw string) (domainauth.Claims, error) {
	tok, err := c.verifier.Verify(ctx, raw)
	if err != nil {
		return domainauth.Claims{}, apperrors.Upstream(err.Error(), err)
	}
	return idtoken.ToClaims(tok)
}

func (c *Client) projectPath(op string) string {
	return "/v1/projects/" + c.projectID + "/" + op
}

// call POSTs a JSON body and decodes the JSON response into out (when non-nil).
// Identity Toolkit errors look like {"error":{"code":400,"message":"EMAIL_EXISTS"}};
// the message is surfaced verbatim.
func (c *Client) call(ctx context.Context, hc *http.Client, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.identityURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return apperrors.Upstream("Identity service is unavailable.", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Upstream("Identity service is unavailable.", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Upstream("Identity service returned an invalid response.", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var env struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	cause := fmt.Errorf("identity toolkit: HTTP %d", status)
	if json.Unmarshal(data, &env) == nil && env.Error.Message != "" {
		return apperrors.Upstream(env.Error.Message, cause)
	}
	return apperrors.Upstream(http.StatusText(status), cause)
}
