package httpx

import (
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
)

// Index renders the landing page.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "Job Board",
		PageTitle:   "Find work. Find workers.",
		CurrentPage: PageHome,
	}).Build())
}

// LoginRegister renders the combined sign-in and registration page for role.
// When the browser SDK is configured the page loads it so sign-in posts an
// identity token; otherwise the form posts email and password.
func (h *UIHandlers) LoginRegister(role domainauth.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := NewTemplateData(r, PageMeta{
			Title:       role.Title() + " Login / Register",
			PageTitle:   role.Title() + " Portal",
			CurrentPage: PageLoginRegister,
		}).
			With("Role", string(role)).
			With("RoleTitle", role.Title()).
			With("LoginAction", "/"+string(role)+"/login").
			With("RegisterAction", "/"+string(role)+"/register")
		if h.Firebase.Enabled() {
			b.With("Firebase", h.Firebase)
		}
		h.render(w, r, b.Build())
	}
}

// NotFound renders the 404 page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	data := basePageData(r, PageMeta{Title: "Page Not Found"})
	data["Code"] = "404"
	data["Message"] = "The page you're looking for doesn't exist."

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T == nil {
		_, _ = w.Write([]byte("Page not found"))
		return
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().ErrorContext(r.Context(), "render not found page", "error", err)
	}
}
