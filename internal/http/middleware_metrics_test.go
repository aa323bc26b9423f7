package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

type recordedMetric struct {
	name  string
	value int64
	tags  map[string]string
}

// recordingSink keeps counters in memory; timings are only counted.
type recordingSink struct {
	mu      sync.Mutex
	counts  []recordedMetric
	timings int
}

func (s *recordingSink) Count(name string, value int64, tags map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, recordedMetric{name: name, value: value, tags: tags})
}

func (s *recordingSink) Timing(string, time.Duration, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings++
}

func (s *recordingSink) named(name string) []recordedMetric {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedMetric
	for _, m := range s.counts {
		if m.name == name {
			out = append(out, m)
		}
	}
	return out
}

func TestMetricsMiddleware(t *testing.T) {
	sink := &recordingSink{}
	h := Metrics(sink)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusSeeOther)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/manager/post-job", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	got := sink.named("http.requests")
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"method": "POST", "route": "manager", "status": "3xx"}, got[0].tags)
	assert.Equal(t, map[string]string{"method": "GET", "route": "other", "status": "4xx"}, got[1].tags)
	assert.Equal(t, 2, sink.timings)
}

func TestMetricsMiddleware_NilSinkPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
	Metrics(nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestRouteSectionAndStatusClass(t *testing.T) {
	assert.Equal(t, "root", routeSection("/"))
	assert.Equal(t, "worker", routeSection("/worker/apply-job/42"))
	assert.Equal(t, "healthz", routeSection("/healthz"))
	assert.Equal(t, "other", routeSection("/wp-admin"))

	assert.Equal(t, "2xx", statusClass(http.StatusOK))
	assert.Equal(t, "5xx", statusClass(http.StatusServiceUnavailable))
	assert.Equal(t, "unknown", statusClass(0))
}

func TestRouter_CountsDomainEvents(t *testing.T) {
	app := newTestApp(t)

	manager := app.newBrowser()
	manager.signUp(domainauth.RoleManager, "Dana", "dana@example.com")
	jobID := manager.postJob("Cook", "NYC")

	worker := app.newBrowser()
	worker.signUp(domainauth.RoleWorker, "Walt", "walt@example.com")
	worker.Post("/worker/apply-job/"+jobID, nil)
	worker.Post("/worker/apply-job/"+jobID, nil)

	bad := app.newBrowser()
	bad.Post("/worker/login", url.Values{"email": {"walt@example.com"}, "password": {"wrong"}})

	assert.Len(t, app.metrics.named("jobs.posted"), 1)

	var outcomes []string
	for _, m := range app.metrics.named("applications.submitted") {
		outcomes = append(outcomes, m.tags["outcome"])
	}
	assert.Equal(t, []string{"ok", "conflict"}, outcomes)

	logins := app.metrics.named("auth.login")
	require.Len(t, logins, 3)
	assert.Equal(t, map[string]string{"role": "worker", "outcome": "ok"}, logins[1].tags)
	assert.Equal(t, "worker", logins[2].tags["role"])
	assert.NotEqual(t, "ok", logins[2].tags["outcome"])
}
