// Package idtoken converts verified OIDC identity tokens into domain claims.
package idtoken

import (
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// ToClaims decodes every claim of a verified token. The subject is the uid;
// email and name are read from their standard claim names.
func ToClaims(tok *gooidc.IDToken) (domainauth.Claims, error) {
	raw := map[string]any{}
	if err := tok.Claims(&raw); err != nil {
		return domainauth.Claims{}, fmt.Errorf("decode token claims: %w", err)
	}
	c := domainauth.Claims{
		UID:       tok.Subject,
		Raw:       raw,
		ExpiresAt: tok.Expiry,
	}
	if v, ok := raw["email"].(string); ok {
		c.Email = v
	}
	if v, ok := raw["name"].(string); ok {
		c.Name = v
	}
	return c, nil
}
