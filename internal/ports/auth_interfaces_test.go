package ports_test

import (
	"testing"

	"github.com/target/jobboard/internal/adapters/authroles"
	"github.com/target/jobboard/internal/adapters/devauth"
	"github.com/target/jobboard/internal/adapters/identitytoolkit"
	redisadapter "github.com/target/jobboard/internal/adapters/redis"
	mocks "github.com/target/jobboard/internal/mocks/auth"
	"github.com/target/jobboard/internal/ports"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityProvider = (*identitytoolkit.Client)(nil)
	var _ ports.IdentityProvider = (*devauth.Provider)(nil)
	var _ ports.IdentityProvider = (*mocks.FakeIdentityProvider)(nil)
	var _ ports.SessionStore = (*redisadapter.SessionStore)(nil)
	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.FlashStore = (*redisadapter.FlashStore)(nil)
	var _ ports.FlashStore = (*mocks.MemoryFlashStore)(nil)
	var _ ports.RoleMapper = (*authroles.ClaimRoleMapper)(nil)
}
