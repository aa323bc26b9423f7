package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the identity provider backing registration and login.
type AuthMode string

const (
	// AuthModeFirebase uses Firebase Authentication (Google Identity Toolkit).
	AuthModeFirebase AuthMode = "firebase"
	// AuthModeMock uses the in-process development identity provider.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "firebase", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: firebase, mock)", v)
	}
}

// FirebaseConfig contains Firebase project settings. The first three values are
// also handed to the browser SDK on the login pages.
type FirebaseConfig struct {
	APIKey     string `env:"API_KEY"`
	AuthDomain string `env:"AUTH_DOMAIN"`
	ProjectID  string `env:"PROJECT_ID"`
	// CredentialsJSON is the service account key file content.
	CredentialsJSON string `env:"JSON_CONTENT"`

	// Endpoint overrides, mostly useful for the auth emulator and tests.
	IdentityURL string `env:"IDENTITY_URL" envDefault:"https://identitytoolkit.googleapis.com"`
	TokenURL    string `env:"TOKEN_URL"    envDefault:"https://oauth2.googleapis.com/token"`
	JWKSURL     string `env:"JWKS_URL"     envDefault:"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"`

	// EmulatorHost (host:port) routes identity calls to the Firebase auth
	// emulator and sends admin calls without OAuth credentials.
	EmulatorHost string `env:"AUTH_EMULATOR_HOST"`
}

// UsesEmulator reports whether the auth emulator is configured.
func (f FirebaseConfig) UsesEmulator() bool {
	return strings.TrimSpace(f.EmulatorHost) != ""
}

// IdentityEndpoint is the Identity Toolkit base URL, pointing at the emulator
// when one is configured.
func (f FirebaseConfig) IdentityEndpoint() string {
	if f.UsesEmulator() {
		return "http://" + strings.TrimSpace(f.EmulatorHost) + "/identitytoolkit.googleapis.com"
	}
	return f.IdentityURL
}

// DevAuthConfig controls the mock identity provider.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	Issuer   string        `env:"ISSUER"    envDefault:"http://localhost:8080/devauth"`
	Audience string        `env:"AUDIENCE"  envDefault:"jobboard-dev"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"firebase"`

	// RoleClaim is a JMESPath expression evaluated against the verified token
	// claims to find the user's role.
	RoleClaim string `env:"AUTH_ROLE_CLAIM" envDefault:"role"`

	Firebase FirebaseConfig `envPrefix:"FIREBASE_"`
	DevAuth  DevAuthConfig  `envPrefix:"DEV_AUTH_"`
}

// Sanitize fills blank values that would otherwise break token handling.
func (a *AuthConfig) Sanitize() {
	a.RoleClaim = strings.TrimSpace(a.RoleClaim)
	if a.RoleClaim == "" {
		a.RoleClaim = "role"
	}
	if a.DevAuth.TokenTTL <= 0 {
		a.DevAuth.TokenTTL = time.Hour
	}
	a.Firebase.IdentityURL = strings.TrimRight(a.Firebase.IdentityURL, "/")
}

// SessionConfig controls server-side session and flash message lifetimes.
type SessionConfig struct {
	TTL      time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	FlashTTL time.Duration `env:"FLASH_TTL"   envDefault:"10m"`
}

// Sanitize clamps lifetimes to sane minimums.
func (s *SessionConfig) Sanitize() {
	if s.TTL < time.Minute {
		s.TTL = 12 * time.Hour
	}
	if s.FlashTTL < time.Second {
		s.FlashTTL = 10 * time.Minute
	}
}
