package idtoken

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "http://issuer.test"
	testAudience = "jobboard-test"
)

// verify signs extra on top of the registered claims and runs the result
// through a verifier backed by the signing key.
func verify(t *testing.T, subject string, extra map[string]any) *gooidc.IDToken {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	require.NoError(t, err)
	now := time.Now()
	raw, err := jwt.Signed(signer).
		Claims(jwt.Claims{
			Issuer:   testIssuer,
			Subject:  subject,
			Audience: jwt.Audience{testAudience},
			IssuedAt: jwt.NewNumericDate(now),
			Expiry:   jwt.NewNumericDate(now.Add(time.Hour)),
		}).
		Claims(extra).
		Serialize()
	require.NoError(t, err)

	keySet := &gooidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	verifier := gooidc.NewVerifier(testIssuer, keySet, &gooidc.Config{ClientID: testAudience})
	tok, err := verifier.Verify(context.Background(), raw)
	require.NoError(t, err)
	return tok
}

func TestToClaims(t *testing.T) {
	tok := verify(t, "uid-42", map[string]any{
		"email": "cook@example.com",
		"name":  "Cook",
		"role":  "worker",
	})

	c, err := ToClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", c.UID)
	assert.Equal(t, "cook@example.com", c.Email)
	assert.Equal(t, "Cook", c.Name)
	assert.Equal(t, tok.Expiry, c.ExpiresAt)
	assert.Equal(t, "worker", c.Raw["role"])
	assert.Equal(t, "uid-42", c.Raw["sub"])
}

func TestToClaims_IgnoresNonStringProfileClaims(t *testing.T) {
	tok := verify(t, "uid-7", map[string]any{
		"email": 12,
		"name":  map[string]any{"first": "Cook"},
	})

	c, err := ToClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-7", c.UID)
	assert.Empty(t, c.Email)
	assert.Empty(t, c.Name)
	assert.EqualValues(t, 12, c.Raw["email"])
}
