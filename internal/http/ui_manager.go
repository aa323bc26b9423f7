package httpx

import (
	"fmt"
	"net/http"

	domainauth "github.com/target/jobboard/internal/domain/auth"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const managerDashboardPath = "/manager/dashboard"

// Manager-facing messages.
const (
	msgJobPosted          = "Job posted successfully!"
	msgJobUpdated         = "Job updated successfully!"
	msgJobDeleted         = "Job and all its applications have been deleted."
	msgJobNotFound        = "Job not found."
	msgNoEditPermission   = "You do not have permission to edit this job."
	msgNoUpdatePermission = "You do not have permission to update this job."
	msgNoDeletePermission = "Job not found or you don't have permission to delete it."
	msgNoViewPermission   = "Job not found or you don't have permission."
)

func applicantsPath(jobID string) string { return "/manager/job/" + jobID + "/applicants" }

// ManagerDashboard lists the manager's jobs with their applicant counts.
func (h *UIHandlers) ManagerDashboard(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Jobs.ListForManager(r.Context(), userID(r.Context()))
	if err != nil {
		h.flashFailure(r, "Error fetching jobs", err)
	}
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "Manager Dashboard",
		PageTitle:   "Your Job Postings",
		CurrentPage: PageManagerDashboard,
	}).With("Jobs", jobs).With("TotalApplicants", jobsWithCountTotal(jobs)).Build())
}

// PostJobForm renders an empty job form.
func (h *UIHandlers) PostJobForm(w http.ResponseWriter, r *http.Request) {
	h.renderJobForm(w, r, jobFormPage{Mode: FormModeCreate})
}

// PostJob creates an Active job owned by the caller.
func (h *UIHandlers) PostJob(w http.ResponseWriter, r *http.Request) {
	form, in, fieldErrs := parseJobForm(r, FormModeCreate)
	if len(fieldErrs) > 0 {
		h.renderJobForm(w, r, jobFormPage{Mode: FormModeCreate, Form: form, FieldErrors: fieldErrs})
		return
	}

	job, err := h.Jobs.Create(r.Context(), userID(r.Context()), in)
	switch {
	case apperrors.IsValidation(err):
		h.renderJobForm(w, r, jobFormPage{Mode: FormModeCreate, Form: form, Error: apperrors.UserMessage(err)})
	case err != nil:
		h.flashFailure(r, "Error posting job", err)
		redirect(w, r, "/manager/post-job")
	default:
		h.logger().InfoContext(r.Context(), "job posted", "job_id", job.ID, "manager_id", job.PostedBy)
		countEvent(h.Metrics, "jobs.posted", nil)
		h.flashAndRedirect(w, r, domainauth.Success(msgJobPosted), managerDashboardPath)
	}
}

// EditJob renders the edit form for a job the caller owns.
func (h *UIHandlers) EditJob(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	job, err := h.Jobs.GetOwned(r.Context(), userID(r.Context()), jobID)
	switch {
	case apperrors.IsNotFound(err):
		h.flashAndRedirect(w, r, domainauth.Danger(msgJobNotFound), managerDashboardPath)
	case apperrors.IsForbidden(err):
		h.flashAndRedirect(w, r, domainauth.Danger(msgNoEditPermission), managerDashboardPath)
	case err != nil:
		h.flashFailure(r, "Error fetching job for edit", err)
		redirect(w, r, managerDashboardPath)
	default:
		h.renderJobForm(w, r, jobFormPage{Mode: FormModeEdit, JobID: job.ID, Form: jobFormFrom(job)})
	}
}

// UpdateJob saves the edit form. Ownership is checked before the form is read.
func (h *UIHandlers) UpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")
	if _, err := h.Jobs.GetOwned(ctx, userID(ctx), jobID); err != nil {
		if isDenied(err) {
			h.flashAndRedirect(w, r, domainauth.Danger(msgNoUpdatePermission), managerDashboardPath)
			return
		}
		h.flashFailure(r, "Error updating job", err)
		redirect(w, r, managerDashboardPath)
		return
	}

	form, in, fieldErrs := parseJobForm(r, FormModeEdit)
	if len(fieldErrs) > 0 {
		h.renderJobForm(w, r, jobFormPage{Mode: FormModeEdit, JobID: jobID, Form: form, FieldErrors: fieldErrs})
		return
	}

	_, err := h.Jobs.Update(ctx, userID(ctx), jobID, in)
	switch {
	case apperrors.IsValidation(err):
		h.renderJobForm(w, r, jobFormPage{Mode: FormModeEdit, JobID: jobID, Form: form, Error: apperrors.UserMessage(err)})
	case isDenied(err):
		h.flashAndRedirect(w, r, domainauth.Danger(msgNoUpdatePermission), managerDashboardPath)
	case err != nil:
		h.flashFailure(r, "Error updating job", err)
		redirect(w, r, managerDashboardPath)
	default:
		h.flashAndRedirect(w, r, domainauth.Success(msgJobUpdated), managerDashboardPath)
	}
}

// DeleteJob removes an owned job together with its applications.
func (h *UIHandlers) DeleteJob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("id")
	removed, err := h.Jobs.Delete(ctx, userID(ctx), jobID)
	switch {
	case isDenied(err):
		h.flash(r, domainauth.Danger(msgNoDeletePermission))
	case err != nil:
		h.flashFailure(r, "Error deleting job", err)
	default:
		h.logger().InfoContext(ctx, "job deleted", "job_id", jobID, "applications_removed", removed)
		countEvent(h.Metrics, "jobs.deleted", nil)
		h.flash(r, domainauth.Success(msgJobDeleted))
	}
	redirect(w, r, managerDashboardPath)
}

// Applicants lists the applications to an owned job.
func (h *UIHandlers) Applicants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	job, apps, err := h.Jobs.Applicants(ctx, userID(ctx), r.PathValue("id"))
	switch {
	case isDenied(err):
		h.flashAndRedirect(w, r, domainauth.Danger(msgNoViewPermission), managerDashboardPath)
		return
	case err != nil:
		h.flashFailure(r, "Error fetching applicants", err)
		redirect(w, r, managerDashboardPath)
		return
	}
	h.render(w, r, NewTemplateData(r, PageMeta{
		Title:       "Applicants",
		PageTitle:   "Applicants for " + job.Title,
		CurrentPage: PageApplicants,
	}).With("Job", job).With("Applications", apps).Build())
}

// UpdateApplicationStatus changes the status of an application to one of the
// caller's jobs and returns to that job's applicants.
func (h *UIHandlers) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	app, err := h.Applications.UpdateStatus(ctx, userID(ctx), r.PathValue("id"), r.PostFormValue("status"))
	switch {
	case apperrors.IsForbidden(err):
		h.flashAndRedirect(w, r, domainauth.Danger(apperrors.UserMessage(err)), managerDashboardPath)
	case apperrors.IsValidation(err) && app != nil:
		h.flashAndRedirect(w, r, domainauth.Danger(apperrors.UserMessage(err)), applicantsPath(app.JobID))
	case err != nil:
		h.flashFailure(r, "Error updating status", err)
		redirect(w, r, managerDashboardPath)
	default:
		countEvent(h.Metrics, "applications.status_changed", map[string]string{"status": string(app.Status)})
		msg := fmt.Sprintf("Application status updated to %s.", app.Status)
		h.flashAndRedirect(w, r, domainauth.Success(msg), applicantsPath(app.JobID))
	}
}

// jobsWithCountTotal sums applicant counts for the dashboard summary.
func jobsWithCountTotal(jobs []model.JobWithCount) int {
	total := 0
	for _, j := range jobs {
		total += j.AppCount
	}
	return total
}
