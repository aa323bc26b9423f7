package service

import (
	"context"
	"fmt"

	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/ports"
	"golang.org/x/sync/errgroup"
)

// User-facing application messages.
const (
	MsgAlreadyApplied       = "You have already applied for this job."
	MsgJobUnavailable       = "This job posting is no longer available."
	MsgApplicationForbidden = "Application not found or you don't have permission to update it."
	MsgInvalidAppStatus     = "Invalid application status."
)

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	Jobs         core.JobRepository
	Applications core.ApplicationRepository
	Identity     ports.IdentityProvider
}

// ApplicationService implements the worker side of the board and the
// manager's review of applications.
type ApplicationService struct {
	jobs     core.JobRepository
	apps     core.ApplicationRepository
	identity ports.IdentityProvider
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	if opts.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Applications == nil {
		panic("ApplicationRepository is required")
	}
	if opts.Identity == nil {
		panic("IdentityProvider is required")
	}
	return &ApplicationService{jobs: opts.Jobs, apps: opts.Applications, identity: opts.Identity}
}

// Apply files a Pending application by workerID to an Active job. A repeat
// application is a Conflict; a missing or Closed job is NotFound.
func (s *ApplicationService) Apply(ctx context.Context, workerID, jobID string) (*model.Application, error) {
	exists, err := s.apps.Exists(ctx, workerID, jobID)
	if err != nil {
		return nil, fmt.Errorf("check existing application: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict(MsgAlreadyApplied)
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if apperrors.IsNotFound(err) || (err == nil && !job.IsActive()) {
		return nil, apperrors.NotFound(MsgJobUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	worker, err := s.identity.GetUser(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("lookup worker: %w", asUpstream(err))
	}
	name := worker.DisplayName
	if name == "" {
		name = worker.Email
	}

	app, err := s.apps.Create(ctx, &model.CreateApplicationRequest{
		JobID:      job.ID,
		JobTitle:   job.Title,
		ManagerID:  job.PostedBy,
		WorkerID:   workerID,
		WorkerName: name,
		Status:     model.ApplicationStatusPending,
	})
	switch {
	case apperrors.IsConflict(err):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConflict, MsgAlreadyApplied)
	case apperrors.IsForeignKey(err):
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNotFound, MsgJobUnavailable)
	case err != nil:
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// Dashboard counts Active jobs and the worker's applications concurrently.
func (s *ApplicationService) Dashboard(ctx context.Context, workerID string) (model.WorkerStats, error) {
	var stats model.WorkerStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.jobs.CountByStatus(gctx, model.JobStatusActive)
		if err != nil {
			return fmt.Errorf("count active jobs: %w", err)
		}
		stats.ActiveJobs = n
		return nil
	})
	g.Go(func() error {
		n, err := s.apps.CountByWorker(gctx, workerID)
		if err != nil {
			return fmt.Errorf("count applications: %w", err)
		}
		stats.Applications = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.WorkerStats{}, err
	}
	return stats, nil
}

// Browse returns the Active jobs and the set of job ids the worker already
// applied to, fetched concurrently.
func (s *ApplicationService) Browse(ctx context.Context, workerID string) ([]*model.Job, map[string]bool, error) {
	var (
		jobs    []*model.Job
		applied []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = s.jobs.ListByStatus(gctx, model.JobStatusActive)
		if err != nil {
			return fmt.Errorf("list active jobs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		applied, err = s.apps.ListJobIDsByWorker(gctx, workerID)
		if err != nil {
			return fmt.Errorf("list applied jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	set := make(map[string]bool, len(applied))
	for _, id := range applied {
		set[id] = true
	}
	return jobs, set, nil
}

// MyApplications lists the worker's applications, newest first.
func (s *ApplicationService) MyApplications(ctx context.Context, workerID string) ([]*model.Application, error) {
	apps, err := s.apps.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus lets the manager who owns the application's job change its
// status. An application of another manager is reported as not found.
// On an invalid status the loaded application is returned with the error so
// callers can route back to its job.
func (s *ApplicationService) UpdateStatus(ctx context.Context, managerID, appID, status string) (*model.Application, error) {
	app, err := s.apps.GetByID(ctx, appID)
	if apperrors.IsNotFound(err) || (err == nil && app.ManagerID != managerID) {
		return nil, apperrors.Forbidden(MsgApplicationForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}

	st, ok := model.ParseApplicationStatus(status)
	if !ok {
		return app, apperrors.ValidationField("status", MsgInvalidAppStatus)
	}
	updated, err := s.apps.UpdateStatus(ctx, app.ID, st)
	if err != nil {
		return app, fmt.Errorf("update application status: %w", err)
	}
	return updated, nil
}
