package httpx

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/target/jobboard/internal/observability/statsd"
)

// Metrics counts and times every request. Tags stay low-cardinality: the
// route is the first path segment and the status is reduced to its class.
func Metrics(sink statsd.Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if sink == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			tags := map[string]string{
				"method": r.Method,
				"route":  routeSection(r.URL.Path),
				"status": statusClass(ww.status),
			}
			sink.Count("http.requests", 1, tags)
			sink.Timing("http.request.duration", time.Since(start), tags)
		})
	}
}

func routeSection(path string) string {
	section, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	switch section {
	case "":
		return "root"
	case "manager", "worker", "static", "healthz", "logout":
		return section
	default:
		return "other"
	}
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// countEvent bumps a domain counter when a sink is configured.
func countEvent(sink statsd.Sink, name string, tags map[string]string) {
	if sink != nil {
		sink.Count(name, 1, tags)
	}
}
