package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"gorm.io/gorm"
)

// ApplicationRepo provides SQLite operations for applications.
type ApplicationRepo struct {
	db    *gorm.DB
	clock core.Clock
}

// Create inserts an application. The unique (worker_id, job_id) index surfaces
// duplicates as conflicts and the jobs foreign key rejects unknown jobs.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	appliedOn := req.AppliedOn
	if appliedOn.IsZero() {
		appliedOn = r.clock.Now()
	}
	row := applicationRow{
		JobID:      req.JobID,
		JobTitle:   req.JobTitle,
		ManagerID:  req.ManagerID,
		WorkerID:   req.WorkerID,
		WorkerName: req.WorkerName,
		AppliedOn:  appliedOn.UTC(),
		Status:     string(req.Status),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create application: %w", apperrors.MapGormError(err))
	}
	return row.toModel(), nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	var row applicationRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapErr(err, msgApplicationNotFound)
	}
	return row.toModel(), nil
}

// Exists reports whether the worker already applied to the job.
func (r *ApplicationRepo) Exists(ctx context.Context, workerID, jobID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&applicationRow{}).
		Where("worker_id = ? AND job_id = ?", workerID, jobID).
		Limit(1).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("check application: %w", apperrors.MapGormError(err))
	}
	return n > 0, nil
}

// ListByJob returns the applications for a job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	return r.list(ctx, "job_id = ?", jobID)
}

// ListByWorker returns a worker's applications, newest first.
func (r *ApplicationRepo) ListByWorker(ctx context.Context, workerID string) ([]*model.Application, error) {
	return r.list(ctx, "worker_id = ?", workerID)
}

func (r *ApplicationRepo) list(ctx context.Context, where string, arg any) ([]*model.Application, error) {
	var rows []applicationRow
	if err := r.db.WithContext(ctx).Where(where, arg).Order("applied_on DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", apperrors.MapGormError(err))
	}
	out := make([]*model.Application, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// ListJobIDsByWorker returns the ids of the jobs a worker applied to.
func (r *ApplicationRepo) ListJobIDsByWorker(ctx context.Context, workerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&applicationRow{}).Where("worker_id = ?", workerID).Pluck("job_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list applied job ids: %w", apperrors.MapGormError(err))
	}
	return ids, nil
}

// CountByWorker counts a worker's applications.
func (r *ApplicationRepo) CountByWorker(ctx context.Context, workerID string) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&applicationRow{}).Where("worker_id = ?", workerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count applications: %w", apperrors.MapGormError(err))
	}
	return int(n), nil
}

type jobCount struct {
	JobID string
	N     int
}

// CountByJobIDs counts applications per job in a single grouped query.
func (r *ApplicationRepo) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var counts []jobCount
	err := r.db.WithContext(ctx).Model(&applicationRow{}).
		Select("job_id, count(*) AS n").
		Where("job_id IN ?", jobIDs).
		Group("job_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count applications by job: %w", apperrors.MapGormError(err))
	}
	for _, c := range counts {
		out[c.JobID] = c.N
	}
	return out, nil
}

// UpdateStatus sets an application's status.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, apperrors.ValidationField("status", "Invalid application status.")
	}
	var row applicationRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&applicationRow{}).Where("id = ?", id).Updates(map[string]any{
			"status":     string(status),
			"updated_at": r.clock.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return nil, mapErr(err, msgApplicationNotFound)
	}
	return row.toModel(), nil
}

var _ core.ApplicationRepository = (*ApplicationRepo)(nil)
