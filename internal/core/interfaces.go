package core

import (
	"context"
	"time"

	"github.com/target/jobboard/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and the document store.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error)
	// ListByPoster returns jobs posted by uid, newest first.
	ListByPoster(ctx context.Context, uid string) ([]*model.Job, error)
	// ListByStatus returns jobs in the given status, newest first.
	ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error)
	CountByStatus(ctx context.Context, status model.JobStatus) (int, error)
	// DeleteWithApplications removes the job and every application referencing it
	// in one transaction. It returns the number of applications removed.
	DeleteWithApplications(ctx context.Context, id string) (int, error)
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	// Create inserts an application. A second application by the same worker
	// for the same job fails with a conflict error.
	Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error)
	GetByID(ctx context.Context, id string) (*model.Application, error)
	Exists(ctx context.Context, workerID, jobID string) (bool, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	ListByWorker(ctx context.Context, workerID string) ([]*model.Application, error)
	// ListJobIDsByWorker returns the ids of every job the worker applied to.
	ListJobIDsByWorker(ctx context.Context, workerID string) ([]string, error)
	CountByWorker(ctx context.Context, workerID string) (int, error)
	// CountByJobIDs returns application counts keyed by job id. Jobs without
	// applications are absent from the map.
	CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
}

// Store bundles the repositories a store driver provides.
type Store interface {
	Jobs() JobRepository
	Applications() ApplicationRepository
	Ping(ctx context.Context) error
	Close() error
}

// Clock abstracts time for services that stamp records.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns UTC wall-clock time.
var SystemClock Clock = ClockFunc(func() time.Time { return time.Now().UTC() })
