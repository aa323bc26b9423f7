package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	apperrors "github.com/target/jobboard/internal/errors"
	obserrors "github.com/target/jobboard/internal/observability/errors"
	"github.com/target/jobboard/internal/observability/statsd"
	"github.com/target/jobboard/internal/service"
)

// Authentication messages shown after a redirect.
const (
	msgRegistered = "Registration successful! Please sign in."
	msgLoggedIn   = "Logged in successfully!"
	msgLoggedOut  = "You have been logged out."
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Register(ctx context.Context, role domainauth.Role, in service.RegisterInput) (string, error)
	Login(ctx context.Context, role domainauth.Role, in service.LoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for registration, login and logout.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	Flash        *FlashQueue
	CookieDomain string
	Metrics      statsd.Sink // optional
	Logger       *slog.Logger
}

func outcomeTags(role domainauth.Role, err error) map[string]string {
	outcome := "ok"
	if err != nil {
		outcome = obserrors.Classify(err)
	}
	return map[string]string{"role": string(role), "outcome": outcome}
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Register handles POST /{role}/register and always returns to the role's
// login page with the outcome flashed.
func (h *AuthHandlers) Register(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := h.Svc.Register(r.Context(), role, service.RegisterInput{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		})
		countEvent(h.Metrics, "auth.register", outcomeTags(role, err))
		switch {
		case apperrors.IsValidation(err):
			h.Flash.Push(r, domainauth.Danger(apperrors.UserMessage(err)))
		case err != nil:
			h.logger().WarnContext(r.Context(), "registration failed", "role", role, "error", err)
			h.Flash.Push(r, domainauth.Danger("Registration failed: "+apperrors.UserMessage(err)))
		default:
			h.logger().InfoContext(r.Context(), "user registered", "role", role, "uid", uid)
			h.Flash.Push(r, domainauth.Success(msgRegistered))
		}
		redirect(w, r, role.LoginPath())
	}
}

// Login handles POST /{role}/login. It accepts an id_token from the browser
// SDK or, failing that, email and password.
func (h *AuthHandlers) Login(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := service.LoginInput{
			IDToken:  r.PostFormValue("id_token"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
		if c, err := r.Cookie(DefaultSessionCookieName); err == nil {
			in.PreviousSessionID = c.Value
		}

		session, err := h.Svc.Login(r.Context(), role, in)
		countEvent(h.Metrics, "auth.login", outcomeTags(role, err))
		if err != nil {
			msg := apperrors.UserMessage(err)
			if !apperrors.IsValidation(err) && !apperrors.IsForbidden(err) {
				h.logger().WarnContext(r.Context(), "login failed", "role", role, "error", err)
				msg = "Authentication failed: " + msg
			}
			h.Flash.Push(r, domainauth.Danger(msg))
			redirect(w, r, role.LoginPath())
			return
		}

		h.setSessionCookie(w, r, *session)
		h.Flash.Push(r, domainauth.Success(msgLoggedIn))
		redirect(w, r, role.DashboardPath())
	}
}

// Logout handles GET and POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(DefaultSessionCookieName); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), c.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, DefaultSessionCookieName)
	h.Flash.Push(r, domainauth.Info(msgLoggedOut))
	redirect(w, r, "/")
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     DefaultSessionCookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// clearCookie expires a cookie, mirroring the attributes used to set it.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
