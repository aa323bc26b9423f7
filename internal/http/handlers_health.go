package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthPingTimeout = 2 * time.Second

type healthStatus struct {
	Status string `json:"status"`
}

// healthHandler reports readiness. With a store configured it must answer a
// ping; otherwise the process being up is enough.
func healthHandler(store Pinger, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code, status := http.StatusOK, "ok"
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
				code, status = http.StatusServiceUnavailable, "unavailable"
			}
		}
		writeJSON(w, r, code, healthStatus{Status: status})
	})
}
