package service

import (
	"context"
	"fmt"

	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const msgNotJobOwner = "You do not have permission to access this job."

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Jobs         core.JobRepository
	Applications core.ApplicationRepository
	Clock        core.Clock
}

// JobService implements the manager side of the board: posting, editing and
// deleting jobs and reviewing their applicants. Every operation on an existing
// job checks that the caller posted it.
type JobService struct {
	jobs  core.JobRepository
	apps  core.ApplicationRepository
	clock core.Clock
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) *JobService {
	if opts.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Applications == nil {
		panic("ApplicationRepository is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.SystemClock
	}
	return &JobService{jobs: opts.Jobs, apps: opts.Applications, clock: clock}
}

// JobInput is the editable part of a job as submitted by a form.
type JobInput struct {
	Title       string
	Location    string
	Description string
	Salary      string
	Status      *model.JobStatus
}

// ListForManager returns the manager's jobs, newest first, with applicant counts.
func (s *JobService) ListForManager(ctx context.Context, managerID string) ([]model.JobWithCount, error) {
	jobs, err := s.jobs.ListByPoster(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	counts, err := s.apps.CountByJobIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count applicants: %w", err)
	}
	out := make([]model.JobWithCount, len(jobs))
	for i, j := range jobs {
		out[i] = model.JobWithCount{Job: *j, AppCount: counts[j.ID]}
	}
	return out, nil
}

// Create posts a new Active job owned by managerID.
func (s *JobService) Create(ctx context.Context, managerID string, in JobInput) (*model.Job, error) {
	job, err := s.jobs.Create(ctx, &model.CreateJobRequest{
		Title:       in.Title,
		Location:    in.Location,
		Description: in.Description,
		Salary:      in.Salary,
		PostedBy:    managerID,
		PostedOn:    s.clock.Now().UTC(),
		Status:      model.JobStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// GetOwned loads a job the manager posted. Missing jobs yield a NotFound
// error and foreign jobs a Forbidden one.
func (s *JobService) GetOwned(ctx context.Context, managerID, jobID string) (*model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(managerID) {
		return nil, apperrors.Forbidden(msgNotJobOwner)
	}
	return job, nil
}

// Update replaces the editable fields of an owned job.
func (s *JobService) Update(ctx context.Context, managerID, jobID string, in JobInput) (*model.Job, error) {
	if _, err := s.GetOwned(ctx, managerID, jobID); err != nil {
		return nil, err
	}
	job, err := s.jobs.Update(ctx, jobID, &model.UpdateJobRequest{
		Title:       in.Title,
		Location:    in.Location,
		Description: in.Description,
		Salary:      in.Salary,
		Status:      in.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}

// Delete removes an owned job and all its applications. It returns the number
// of applications removed.
func (s *JobService) Delete(ctx context.Context, managerID, jobID string) (int, error) {
	if _, err := s.GetOwned(ctx, managerID, jobID); err != nil {
		return 0, err
	}
	n, err := s.jobs.DeleteWithApplications(ctx, jobID)
	if err != nil {
		return 0, fmt.Errorf("delete job: %w", err)
	}
	return n, nil
}

// Applicants returns an owned job and its applications, newest first.
func (s *JobService) Applicants(ctx context.Context, managerID, jobID string) (*model.Job, []*model.Application, error) {
	job, err := s.GetOwned(ctx, managerID, jobID)
	if err != nil {
		return nil, nil, err
	}
	apps, err := s.apps.ListByJob(ctx, jobID)
	if err != nil {
		return nil, nil, fmt.Errorf("list applicants: %w", err)
	}
	return job, apps, nil
}
