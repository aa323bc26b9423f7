package httpx

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/ports"
)

// DefaultFlashCookieName names the cookie holding the browser's flash queue key.
const DefaultFlashCookieName = "flash_id"

// FlashQueue queues one-shot messages for the next page a browser renders.
// Messages are kept in a ports.FlashStore under a random per-browser key
// carried in a cookie, so they survive the redirect that follows a form post.
type FlashQueue struct {
	Store        ports.FlashStore
	CookieDomain string
	Logger       *slog.Logger
}

func (q *FlashQueue) logger() *slog.Logger {
	if q != nil && q.Logger != nil {
		return q.Logger
	}
	return slog.Default()
}

// Middleware makes sure every request carries a flash key, issuing the cookie
// on the first visit.
func (q *FlashQueue) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if c, err := r.Cookie(DefaultFlashCookieName); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					key = c.Value
				}
			}
			if key == "" {
				key = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     DefaultFlashCookieName,
					Value:    key,
					Path:     "/",
					Domain:   q.CookieDomain,
					HttpOnly: true,
					Secure:   isSecureRequest(r),
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(setFlashKeyInContext(r.Context(), key)))
		})
	}
}

// Push queues f for the browser that sent r. Failures are logged and
// swallowed; a lost notice must not fail the request.
func (q *FlashQueue) Push(r *http.Request, f domainauth.Flash) {
	if q == nil || q.Store == nil {
		return
	}
	key := flashKeyFromContext(r.Context())
	if key == "" {
		q.logger().WarnContext(r.Context(), "flash dropped: no flash key", "message", f.Message)
		return
	}
	if err := q.Store.Push(r.Context(), key, f); err != nil {
		q.logger().WarnContext(r.Context(), "flash push failed", "error", err)
	}
}

// Pop drains the queued messages for the browser that sent r.
func (q *FlashQueue) Pop(r *http.Request) []domainauth.Flash {
	if q == nil || q.Store == nil {
		return nil
	}
	key := flashKeyFromContext(r.Context())
	if key == "" {
		return nil
	}
	flashes, err := q.Store.Pop(r.Context(), key)
	if err != nil {
		q.logger().WarnContext(r.Context(), "flash pop failed", "error", err)
		return nil
	}
	return flashes
}
