// Package auth contains domain-level types for authentication, sessions and
// the role gate. It is pure and free of framework/adapter concerns.
package auth

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence, cookies and identity-provider claims.
type Role string

const (
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// ParseRole normalizes s into a Role. Unknown values yield "" and false.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleManager || r == RoleWorker }

// Title returns the capitalized role name used in user-facing messages.
func (r Role) Title() string {
	switch r {
	case RoleManager:
		return "Manager"
	case RoleWorker:
		return "Worker"
	default:
		return ""
	}
}

// DashboardPath returns the landing page for the role, or "/" for unknown roles.
func (r Role) DashboardPath() string {
	if !r.Valid() {
		return "/"
	}
	return "/" + string(r) + "/dashboard"
}

// LoginPath returns the role's combined login/register page.
func (r Role) LoginPath() string {
	if !r.Valid() {
		return "/"
	}
	return "/" + string(r) + "/login-register"
}

// Claims is the verified content of an identity token.
// Raw holds every claim so role extraction can be configured.
type Claims struct {
	UID       string
	Email     string
	Name      string
	Raw       map[string]any
	ExpiresAt time.Time
}

// User is the identity provider's record of an account.
type User struct {
	UID         string
	Email       string
	DisplayName string
}

// NewUser carries registration input for the identity provider.
type NewUser struct {
	Email       string
	Password    string
	DisplayName string
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsManager returns true if the session belongs to a manager.
func (s Session) IsManager() bool { return s.Role == RoleManager }

// IsWorker returns true if the session belongs to a worker.
func (s Session) IsWorker() bool { return s.Role == RoleWorker }
