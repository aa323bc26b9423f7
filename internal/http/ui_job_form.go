package httpx

import (
	"net/http"
	"strings"

	"github.com/target/jobboard/internal/domain/model"
	"github.com/target/jobboard/internal/http/validation"
	"github.com/target/jobboard/internal/service"
)

// jobForm holds the raw submitted values so a failed post can be re-shown.
type jobForm struct {
	Title       string
	Location    string
	Description string
	Salary      string
	Status      string
}

func jobFormFrom(j *model.Job) jobForm {
	return jobForm{
		Title:       j.Title,
		Location:    j.Location,
		Description: j.Description,
		Salary:      j.Salary,
		Status:      string(j.Status),
	}
}

// parseJobForm reads and validates the job form. Status is only accepted in
// edit mode; posting always creates an Active job.
func parseJobForm(r *http.Request, mode FormMode) (jobForm, service.JobInput, map[string]string) {
	f := jobForm{
		Title:       strings.TrimSpace(r.PostFormValue("title")),
		Location:    strings.TrimSpace(r.PostFormValue("location")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Salary:      strings.TrimSpace(r.PostFormValue("salary")),
	}

	errs := validation.Errors{}
	errs.Check("title", f.Title, validation.Required("Title", model.MaxJobTitleLen))
	errs.Check("location", f.Location, validation.Required("Location", model.MaxJobLocationLen))
	errs.Check("description", f.Description, validation.Required("Description", model.MaxJobDescriptionLen))
	errs.Check("salary", f.Salary, validation.MaxLength("Salary", model.MaxJobSalaryLen))

	in := service.JobInput{
		Title:       f.Title,
		Location:    f.Location,
		Description: f.Description,
		Salary:      f.Salary,
	}
	if mode == FormModeEdit {
		f.Status = strings.TrimSpace(r.PostFormValue("status"))
		errs.Check("status", f.Status, validation.OneOf("Status", string(model.JobStatusActive), string(model.JobStatusClosed)))
		if st, ok := model.ParseJobStatus(f.Status); ok {
			in.Status = &st
		}
	}
	return f, in, errs
}

// jobFormPage carries what the shared post/edit template needs.
type jobFormPage struct {
	Mode        FormMode
	JobID       string
	Form        jobForm
	FieldErrors map[string]string
	Error       string
}

// renderJobForm renders the post or edit form with any errors.
func (h *UIHandlers) renderJobForm(w http.ResponseWriter, r *http.Request, p jobFormPage) {
	meta := PageMeta{Title: "Post a Job", PageTitle: "Post a New Job", CurrentPage: PageJobForm}
	action := "/manager/post-job"
	if p.Mode == FormModeEdit {
		meta.Title, meta.PageTitle = "Edit Job", "Edit Job Posting"
		action = "/manager/update-job/" + p.JobID
	}
	if p.FieldErrors == nil {
		p.FieldErrors = map[string]string{}
	}

	b := NewTemplateData(r, meta).
		With("Mode", string(p.Mode)).
		With("Action", action).
		With("JobID", p.JobID).
		With("Form", p.Form).
		With("Errors", p.FieldErrors).
		With("JobStatuses", []model.JobStatus{model.JobStatusActive, model.JobStatusClosed})
	if p.Error != "" {
		b.WithError(p.Error)
	}
	h.render(w, r, b.Build())
}
