package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfTestHandler() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

// issueCSRFToken performs a GET and returns the token from the cookie it sets.
func issueCSRFToken(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	t.Cleanup(func() { _ = res.Body.Close() })
	for _, c := range res.Cookies() {
		if c.Name == DefaultCSRFCookieName {
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.False(t, c.HttpOnly)
			assert.Equal(t, c.Value, w.Body.String(), "token exposed to templates must match cookie")
			return c.Value
		}
	}
	t.Fatal("CSRF cookie not set")
	return ""
}

func TestCSRFProtection_GetRequestsAllowed(t *testing.T) {
	token := issueCSRFToken(t, csrfTestHandler())
	assert.NotEmpty(t, token)
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	h := csrfTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "existing"})
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, "existing", w.Body.String())
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestCSRFProtection_Post(t *testing.T) {
	h := csrfTestHandler()
	token := issueCSRFToken(t, h)

	tests := []struct {
		name     string
		build    func() *http.Request
		wantCode int
	}{
		{
			name: "no token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/", nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "valid header token",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", nil)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				r.Header.Set(DefaultCSRFHeaderName, token)
				return r
			},
			wantCode: http.StatusOK,
		},
		{
			name: "valid form token",
			build: func() *http.Request {
				form := url.Values{DefaultCSRFFieldName: {token}}
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusOK,
		},
		{
			name: "mismatched form token",
			build: func() *http.Request {
				form := url.Values{DefaultCSRFFieldName: {"forged"}}
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token in json body is ignored",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"csrf_token":"`+token+`"}`))
				r.Header.Set("Content-Type", "application/json")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, tt.build())
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestIsSecureRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, isSecureRequest(r))

	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, isSecureRequest(r))
}
