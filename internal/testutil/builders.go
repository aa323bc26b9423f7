package testutil

import (
	"fmt"
	"time"

	"github.com/target/jobboard/internal/domain/model"
)

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a builder for a valid Active job posted by managerID.
func NewJobRequest(managerID string) *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			Title:       "Cook",
			Location:    "NYC",
			Description: "Prep and line work.",
			Salary:      "15/hr",
			PostedBy:    managerID,
			PostedOn:    TestTime(),
		},
	}
}

// WithTitle sets the job title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithSalary sets the salary text.
func (b *JobRequestBuilder) WithSalary(salary string) *JobRequestBuilder {
	b.req.Salary = salary
	return b
}

// WithStatus sets the initial status.
func (b *JobRequestBuilder) WithStatus(status model.JobStatus) *JobRequestBuilder {
	b.req.Status = status
	return b
}

// PostedAt sets the posting time.
func (b *JobRequestBuilder) PostedAt(ts time.Time) *JobRequestBuilder {
	b.req.PostedOn = ts
	return b
}

// Build returns the request.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// NewApplicationRequest builds a Pending application of workerID to job.
func NewApplicationRequest(job *model.Job, workerID string) *model.CreateApplicationRequest {
	return &model.CreateApplicationRequest{
		JobID:      job.ID,
		JobTitle:   job.Title,
		ManagerID:  job.PostedBy,
		WorkerID:   workerID,
		WorkerName: fmt.Sprintf("Worker %s", workerID),
		AppliedOn:  TestTime(),
	}
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}
