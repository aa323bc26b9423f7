package model

import (
	"errors"
	"strings"
	"time"
)

// ApplicationStatus tracks a manager's decision on an application.
type ApplicationStatus string

const (
	ApplicationStatusPending      ApplicationStatus = "Pending"
	ApplicationStatusReviewed     ApplicationStatus = "Reviewed"
	ApplicationStatusInterviewing ApplicationStatus = "Interviewing"
	ApplicationStatusHired        ApplicationStatus = "Hired"
	ApplicationStatusRejected     ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists the statuses in the order the UI offers them.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusInterviewing,
	ApplicationStatusHired,
	ApplicationStatusRejected,
}

// Valid reports whether the application status is supported.
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseApplicationStatus matches value case-insensitively against the known statuses.
func ParseApplicationStatus(value string) (ApplicationStatus, bool) {
	v := strings.TrimSpace(value)
	for _, s := range ApplicationStatuses {
		if strings.EqualFold(v, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Application is a worker's application to a job. JobTitle, ManagerID and
// WorkerName are copied at creation and never re-synced.
type Application struct {
	ID         string            `json:"id"          db:"id"`
	JobID      string            `json:"job_id"      db:"job_id"`
	JobTitle   string            `json:"job_title"   db:"job_title"`
	ManagerID  string            `json:"manager_id"  db:"manager_id"`
	WorkerID   string            `json:"worker_id"   db:"worker_id"`
	WorkerName string            `json:"worker_name" db:"worker_name"`
	AppliedOn  time.Time         `json:"applied_on"  db:"applied_on"`
	Status     ApplicationStatus `json:"status"      db:"status"`
	UpdatedAt  time.Time         `json:"updated_at"  db:"updated_at"`
}

// AppliedOnDisplay formats AppliedOn for views.
func (a *Application) AppliedOnDisplay() string { return a.AppliedOn.Format(DisplayDateLayout) }

// CreateApplicationRequest represents parameters to create an Application.
type CreateApplicationRequest struct {
	JobID      string            `json:"job_id"`
	JobTitle   string            `json:"job_title"`
	ManagerID  string            `json:"manager_id"`
	WorkerID   string            `json:"worker_id"`
	WorkerName string            `json:"worker_name"`
	AppliedOn  time.Time         `json:"applied_on"`
	Status     ApplicationStatus `json:"status,omitempty"`
}

// Validate validates CreateApplicationRequest, defaulting Status to Pending.
func (r *CreateApplicationRequest) Validate() error {
	if strings.TrimSpace(r.JobID) == "" {
		return errors.New("job_id is required")
	}
	if strings.TrimSpace(r.WorkerID) == "" {
		return errors.New("worker_id is required")
	}
	if strings.TrimSpace(r.ManagerID) == "" {
		return errors.New("manager_id is required")
	}
	if r.Status == "" {
		r.Status = ApplicationStatusPending
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// WorkerStats summarizes the worker dashboard.
type WorkerStats struct {
	ActiveJobs   int `json:"job_count"`
	Applications int `json:"application_count"`
}
