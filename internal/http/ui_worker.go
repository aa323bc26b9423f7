package httpx

import (
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	obserrors "github.com/target/jobboard/internal/observability/errors"
)

const workerJobsPath = "/worker/jobs"

const (
	msgApplied             = "Successfully applied for the job!"
	msgDatabaseUnavailable = "Database not available."
)

// WorkerDashboard shows how many jobs are open and how many the worker applied to.
func (h *UIHandlers) WorkerDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Applications.Dashboard(r.Context(), userID(r.Context()))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "worker dashboard failed", "error", err)
		h.flash(r, domainauth.Danger(msgDatabaseUnavailable))
		stats = model.WorkerStats{}
	}
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "Worker Dashboard",
		PageTitle:   "Welcome",
		CurrentPage: PageWorkerDashboard,
	}).With("Stats", stats).Build())
}

// WorkerJobs lists Active jobs, marking the ones the worker already applied to.
func (h *UIHandlers) WorkerJobs(w http.ResponseWriter, r *http.Request) {
	jobs, applied, err := h.Applications.Browse(r.Context(), userID(r.Context()))
	if err != nil {
		h.flashFailure(r, "Error fetching jobs", err)
		jobs, applied = nil, map[string]bool{}
	}
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "Available Jobs",
		PageTitle:   "Available Jobs",
		CurrentPage: PageWorkerJobs,
	}).With("Jobs", jobs).With("Applied", applied).Build())
}

// ApplyJob files an application to the job in the path and returns to the listing.
func (h *UIHandlers) ApplyJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := h.Applications.Apply(ctx, userID(ctx), r.PathValue("id"))
	outcome := "ok"
	if err != nil {
		outcome = obserrors.Classify(err)
	}
	countEvent(h.Metrics, "applications.submitted", map[string]string{"outcome": outcome})
	switch {
	case apperrors.IsConflict(err):
		h.flash(r, domainauth.Info(apperrors.UserMessage(err)))
	case apperrors.IsNotFound(err):
		h.flash(r, domainauth.Danger(apperrors.UserMessage(err)))
	case err != nil:
		h.flashFailure(r, "Error submitting application", err)
	default:
		h.logger().InfoContext(ctx, "application submitted", "application_id", app.ID, "job_id", app.JobID)
		h.flash(r, domainauth.Success(msgApplied))
	}
	redirect(w, r, workerJobsPath)
}

// MyApplications lists the worker's applications, newest first.
func (h *UIHandlers) MyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Applications.MyApplications(r.Context(), userID(r.Context()))
	if err != nil {
		h.flashFailure(r, "Error fetching your applications", err)
	}
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "My Applications",
		PageTitle:   "My Applications",
		CurrentPage: PageMyApplications,
	}).With("Applications", apps).Build())
}
