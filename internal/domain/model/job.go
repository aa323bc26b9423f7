// Package model defines the core data types shared by the job board's
// services, stores and views.
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits, shared with form validation in the UI layer.
const (
	MaxJobTitleLen       = 200
	MaxJobLocationLen    = 200
	MaxJobDescriptionLen = 5000
	MaxJobSalaryLen      = 100
)

const (
	// DefaultSalary is stored when a job is posted without a salary.
	DefaultSalary = "N/A"

	// DisplayDateLayout is how posted and applied dates are shown to users.
	DisplayDateLayout = "Jan 02, 2006"
)

// JobStatus represents whether a posting accepts applications.
type JobStatus string

const (
	JobStatusActive JobStatus = "Active"
	JobStatusClosed JobStatus = "Closed"
)

// Valid reports whether the job status is supported.
func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusClosed
}

// ParseJobStatus normalizes a status string ("active", " Closed ") and reports
// whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return JobStatusActive, true
	case "closed":
		return JobStatusClosed, true
	default:
		return "", false
	}
}

// Job is a posting owned by the manager in PostedBy.
type Job struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Location    string    `json:"location"    db:"location"`
	Description string    `json:"description" db:"description"`
	Salary      string    `json:"salary"      db:"salary"`
	PostedBy    string    `json:"posted_by"   db:"posted_by"`
	PostedOn    time.Time `json:"posted_on"   db:"posted_on"`
	Status      JobStatus `json:"status"      db:"status"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// PostedOnDisplay formats PostedOn for views.
func (j *Job) PostedOnDisplay() string { return j.PostedOn.Format(DisplayDateLayout) }

// IsActive reports whether the job accepts applications.
func (j *Job) IsActive() bool { return j.Status == JobStatusActive }

// OwnedBy reports whether uid posted the job.
func (j *Job) OwnedBy(uid string) bool { return uid != "" && j.PostedBy == uid }

// JobWithCount pairs a job with its number of applications for dashboards.
type JobWithCount struct {
	Job
	AppCount int `json:"app_count"`
}

// CreateJobRequest represents parameters to post a Job.
// PostedBy and PostedOn are set by the service, never by the form.
type CreateJobRequest struct {
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary"`
	PostedBy    string    `json:"posted_by"`
	PostedOn    time.Time `json:"posted_on"`
	Status      JobStatus `json:"status,omitempty"`
}

// Normalize trims fields and applies defaults.
func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
	r.Salary = strings.TrimSpace(r.Salary)
	if r.Salary == "" {
		r.Salary = DefaultSalary
	}
	if r.Status == "" {
		r.Status = JobStatusActive
	}
}

// Validate validates CreateJobRequest. Call Normalize first.
func (r *CreateJobRequest) Validate() error {
	if err := validateJobFields(r.Title, r.Location, r.Description, r.Salary); err != nil {
		return err
	}
	if strings.TrimSpace(r.PostedBy) == "" {
		return errors.New("posted_by is required")
	}
	if !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

// UpdateJobRequest replaces the editable fields of a Job. The poster is not
// part of the request, so ownership can never change through an update.
type UpdateJobRequest struct {
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Salary      string     `json:"salary"`
	Status      *JobStatus `json:"status,omitempty"`
}

// Normalize trims fields and applies defaults.
func (r *UpdateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	r.Description = strings.TrimSpace(r.Description)
	r.Salary = strings.TrimSpace(r.Salary)
	if r.Salary == "" {
		r.Salary = DefaultSalary
	}
}

// Validate validates UpdateJobRequest. Call Normalize first.
func (r *UpdateJobRequest) Validate() error {
	if err := validateJobFields(r.Title, r.Location, r.Description, r.Salary); err != nil {
		return err
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("invalid status")
	}
	return nil
}

func validateJobFields(title, location, description, salary string) error {
	switch {
	case title == "":
		return errors.New("title is required")
	case utf8.RuneCountInString(title) > MaxJobTitleLen:
		return errors.New("title cannot exceed 200 characters")
	case location == "":
		return errors.New("location is required")
	case utf8.RuneCountInString(location) > MaxJobLocationLen:
		return errors.New("location cannot exceed 200 characters")
	case description == "":
		return errors.New("description is required")
	case utf8.RuneCountInString(description) > MaxJobDescriptionLen:
		return errors.New("description cannot exceed 5000 characters")
	case utf8.RuneCountInString(salary) > MaxJobSalaryLen:
		return errors.New("salary cannot exceed 100 characters")
	}
	return nil
}
