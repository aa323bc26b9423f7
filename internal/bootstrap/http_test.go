package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/data/sqlstore"
	httpx "github.com/target/jobboard/internal/http"
	authmocks "github.com/target/jobboard/internal/mocks/auth"
)

func TestFirebaseWebConfig(t *testing.T) {
	fb := config.FirebaseConfig{APIKey: "key", AuthDomain: "jobs.firebaseapp.com", ProjectID: "jobs", CredentialsJSON: "secret"}

	got := firebaseWebConfig(config.AuthConfig{Mode: config.AuthModeFirebase, Firebase: fb})
	assert.Equal(t, httpx.FirebaseWebConfig{APIKey: "key", AuthDomain: "jobs.firebaseapp.com", ProjectID: "jobs"}, got)

	assert.False(t, firebaseWebConfig(config.AuthConfig{Mode: config.AuthModeMock, Firebase: fb}).Enabled())
}

// newTestServices builds a container over SQLite and an undialed Redis client.
func newTestServices(t *testing.T) (*config.AppConfig, *ServiceContainer) {
	t.Helper()
	store, err := sqlstore.Open(filepath.Join(t.TempDir(), "board.db"), core.SystemClock)
	require.NoError(t, err)

	cfg := &config.AppConfig{Auth: config.AuthConfig{Mode: config.AuthModeMock, RoleClaim: "role"}}
	cfg.Sanitize()
	cfg.HTTP.Addr = "127.0.0.1:0"

	svcs, err := NewServices(ServiceDeps{
		Config:      cfg,
		Store:       store,
		RedisClient: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
		Provider:    authmocks.NewFakeIdentityProvider(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svcs.Close() })
	return cfg, svcs
}

func TestNewServices_RequiresStore(t *testing.T) {
	_, err := NewServices(ServiceDeps{Config: &config.AppConfig{}})
	require.ErrorContains(t, err, "store is required")
}

func TestBuildHTTPHandler_Healthz(t *testing.T) {
	cfg, svcs := newTestServices(t)

	h, err := BuildHTTPHandler(&HTTPServerConfig{Config: cfg, Services: svcs})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartAndShutdownHTTPServer(t *testing.T) {
	cfg, svcs := newTestServices(t)

	errCh := make(chan error, 1)
	srv, err := StartHTTPServer(&HTTPServerConfig{Config: cfg, Services: svcs}, errCh)
	require.NoError(t, err)

	require.NoError(t, ShutdownHTTPServer(context.Background(), srv, nil))
	assert.Empty(t, errCh)

	_, err = http.Get("http://" + srv.Addr + "/healthz")
	assert.Error(t, err)
}

func TestStartHTTPServer_AddressInUse(t *testing.T) {
	occupied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "busy")
	}))
	t.Cleanup(occupied.Close)

	cfg, svcs := newTestServices(t)
	cfg.HTTP.Addr = occupied.Listener.Addr().String()

	_, err := StartHTTPServer(&HTTPServerConfig{Config: cfg, Services: svcs}, nil)
	require.ErrorContains(t, err, "listen on")
}

func TestWaitForShutdown_ServerError(t *testing.T) {
	_, svcs := newTestServices(t)
	errCh := make(chan error, 1)
	errCh <- http.ErrHandlerTimeout

	err := waitForShutdown(shutdownConfig{
		ctx:      context.Background(),
		errCh:    errCh,
		services: svcs,
		logger:   discardLogger(),
	})
	require.ErrorIs(t, err, http.ErrHandlerTimeout)
}

func TestWaitForShutdown_ContextDone(t *testing.T) {
	_, svcs := newTestServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitForShutdown(shutdownConfig{
		ctx:      ctx,
		errCh:    make(chan error),
		services: svcs,
		logger:   discardLogger(),
	})
	require.NoError(t, err)
}
