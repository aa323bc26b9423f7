package devseed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/data/sqlstore"
	"github.com/target/jobboard/internal/domain/model"
	authmocks "github.com/target/jobboard/internal/mocks/auth"
	"github.com/target/jobboard/internal/service"
)

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFile_Example(t *testing.T) {
	fx, err := LoadFile(filepath.Join("..", "..", "devseed.example.yaml"))
	require.NoError(t, err)

	assert.Len(t, fx.Managers, 1)
	assert.Len(t, fx.Workers, 1)
	require.Len(t, fx.Jobs, 3)
	assert.Equal(t, "Cook", fx.Jobs[0].Title)
	assert.Equal(t, "15/hr", fx.Jobs[0].Salary)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown key",
			body:    "managers: []\nemployers: []\n",
			wantErr: "field employers not found",
		},
		{
			name:    "unknown manager",
			body:    "jobs:\n  - manager: ghost@example.com\n    title: Cook\n",
			wantErr: `manager "ghost@example.com" is not listed`,
		},
		{
			name: "unknown status",
			body: "managers:\n  - {name: M, email: m@example.com, password: pw}\n" +
				"jobs:\n  - {manager: m@example.com, title: Cook, status: Paused}\n",
			wantErr: `unknown status "Paused"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFixture(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "open seed file")
}

func newSeeder(t *testing.T) (*Seeder, *service.JobService) {
	t.Helper()
	store, err := sqlstore.Open(filepath.Join(t.TempDir(), "seed.db"), core.SystemClock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	idp := authmocks.NewFakeIdentityProvider()
	auth := service.NewAuthService(service.AuthServiceOptions{
		Provider: idp,
		Sessions: authmocks.NewMemorySessionStore(),
		Policy:   service.AuthPolicy{Roles: authmocks.StaticRoleMapper{}},
	})
	jobs := service.NewJobService(service.JobServiceOptions{Jobs: store.Jobs(), Applications: store.Applications()})
	return &Seeder{Auth: auth, Identity: idp, Jobs: jobs}, jobs
}

func TestSeeder_RunIsRepeatable(t *testing.T) {
	ctx := context.Background()
	fx, err := LoadFile(filepath.Join("..", "..", "devseed.example.yaml"))
	require.NoError(t, err)
	seeder, jobs := newSeeder(t)

	first, err := seeder.Run(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Jobs: 3}, first)

	second, err := seeder.Run(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, second)

	uid, err := seeder.existingUID(ctx, fx.Managers[0])
	require.NoError(t, err)
	posted, err := jobs.ListForManager(ctx, uid)
	require.NoError(t, err)
	require.Len(t, posted, 3)

	statuses := map[string]model.JobStatus{}
	for _, j := range posted {
		statuses[j.Title] = j.Status
		assert.Equal(t, uid, j.PostedBy)
	}
	assert.Equal(t, model.JobStatusActive, statuses["Cook"])
	assert.Equal(t, model.JobStatusClosed, statuses["Host"])
}

func TestSeeder_WrongPasswordForExistingUser(t *testing.T) {
	ctx := context.Background()
	seeder, _ := newSeeder(t)
	fx := &Fixture{Workers: []User{{Name: "W", Email: "w@example.com", Password: "one"}}}

	_, err := seeder.Run(ctx, fx)
	require.NoError(t, err)

	fx.Workers[0].Password = "two"
	_, err = seeder.Run(ctx, fx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_EXISTS")
}
