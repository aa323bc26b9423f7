package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		store    Pinger
		wantCode int
		wantBody string
	}{
		{
			name:     "no store",
			method:   http.MethodGet,
			wantCode: http.StatusOK,
			wantBody: "{\"status\":\"ok\"}\n",
		},
		{
			name:     "store reachable",
			method:   http.MethodGet,
			store:    pingFunc(func(context.Context) error { return nil }),
			wantCode: http.StatusOK,
			wantBody: "{\"status\":\"ok\"}\n",
		},
		{
			name:     "store down",
			method:   http.MethodGet,
			store:    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			wantCode: http.StatusServiceUnavailable,
			wantBody: "{\"status\":\"unavailable\"}\n",
		},
		{
			name:     "head has no body",
			method:   http.MethodHead,
			store:    pingFunc(func(context.Context) error { return nil }),
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/healthz", nil)
			rec := httptest.NewRecorder()

			healthHandler(tt.store, slog.Default()).ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}
