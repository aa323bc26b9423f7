// Package authroles maps verified identity claims to application roles.
package authroles

import (
	"fmt"
	"strings"

	"github.com/jmespath-community/go-jmespath"
	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// DefaultRoleClaim is the custom claim set at registration.
const DefaultRoleClaim = "role"

// ClaimRoleMapper evaluates a JMESPath expression against the raw token claims
// and parses the result as a Role. Expressions such as "role" or
// "claims.jobboard.role" let the claim live anywhere in the token.
type ClaimRoleMapper struct {
	expr string
}

// NewClaimRoleMapper validates expr and returns a mapper. Blank expressions
// fall back to DefaultRoleClaim.
func NewClaimRoleMapper(expr string) (*ClaimRoleMapper, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultRoleClaim
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile role claim expression %q: %w", expr, err)
	}
	return &ClaimRoleMapper{expr: expr}, nil
}

// Map returns the role found in claims, or "" when the claim is missing or unknown.
func (m *ClaimRoleMapper) Map(claims domainauth.Claims) domainauth.Role {
	if len(claims.Raw) == 0 {
		return ""
	}
	v, err := jmespath.Search(m.expr, claims.Raw)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	role, ok := domainauth.ParseRole(s)
	if !ok {
		return ""
	}
	return role
}
