package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/observability/statsd"
	"github.com/target/jobboard/internal/service"
)

// JobsService exposes the manager-side job operations needed by the UI.
type JobsService interface {
	ListForManager(ctx context.Context, managerID string) ([]model.JobWithCount, error)
	Create(ctx context.Context, managerID string, in service.JobInput) (*model.Job, error)
	GetOwned(ctx context.Context, managerID, jobID string) (*model.Job, error)
	Update(ctx context.Context, managerID, jobID string, in service.JobInput) (*model.Job, error)
	Delete(ctx context.Context, managerID, jobID string) (int, error)
	Applicants(ctx context.Context, managerID, jobID string) (*model.Job, []*model.Application, error)
}

// ApplicationsService exposes worker browsing and application review to the UI.
type ApplicationsService interface {
	Apply(ctx context.Context, workerID, jobID string) (*model.Application, error)
	Dashboard(ctx context.Context, workerID string) (model.WorkerStats, error)
	Browse(ctx context.Context, workerID string) ([]*model.Job, map[string]bool, error)
	MyApplications(ctx context.Context, workerID string) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, managerID, appID, status string) (*model.Application, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ JobsService          = (*service.JobService)(nil)
	_ ApplicationsService  = (*service.ApplicationService)(nil)
	_ AuthServiceInterface = (*service.AuthService)(nil)
)

// FirebaseWebConfig is the public browser SDK configuration injected into the
// login pages. It carries no secrets.
type FirebaseWebConfig struct {
	APIKey     string `json:"apiKey"`
	AuthDomain string `json:"authDomain"`
	ProjectID  string `json:"projectId"`
}

// Enabled reports whether the browser SDK should be loaded.
func (c FirebaseWebConfig) Enabled() bool { return c.APIKey != "" && c.ProjectID != "" }

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Jobs         JobsService
	Applications ApplicationsService
	Flash        *FlashQueue
	Firebase     FirebaseWebConfig
	IsDev        bool
	Metrics      statsd.Sink // optional
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// render drains the flash queue into data and renders the full page.
func (h *UIHandlers) render(w http.ResponseWriter, r *http.Request, data map[string]any) {
	data["Flashes"] = h.Flash.Pop(r)
	if err := h.T.RenderFull(w, r, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// flash queues f for the next rendered page.
func (h *UIHandlers) flash(r *http.Request, f domainauth.Flash) { h.Flash.Push(r, f) }

// flashFailure logs an unexpected error and queues "<prefix>: <message>".
func (h *UIHandlers) flashFailure(r *http.Request, prefix string, err error) {
	h.logger().ErrorContext(r.Context(), prefix, "error", err, "path", r.URL.Path)
	h.flash(r, domainauth.Danger(prefix+": "+apperrors.UserMessage(err)))
}

// flashAndRedirect queues f and sends the browser to target.
func (h *UIHandlers) flashAndRedirect(w http.ResponseWriter, r *http.Request, f domainauth.Flash, target string) {
	h.flash(r, f)
	redirect(w, r, target)
}

// isDenied reports errors the UI treats as "missing or not yours".
func isDenied(err error) bool {
	return apperrors.IsNotFound(err) || apperrors.IsForbidden(err)
}
