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

// JobRepo provides SQLite operations for jobs.
type JobRepo struct {
	db    *gorm.DB
	clock core.Clock
}

// Create inserts a new job.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("create job request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	postedOn := req.PostedOn
	if postedOn.IsZero() {
		postedOn = r.clock.Now()
	}
	row := jobRow{
		Title:       req.Title,
		Location:    req.Location,
		Description: req.Description,
		Salary:      req.Salary,
		PostedBy:    req.PostedBy,
		PostedOn:    postedOn.UTC(),
		Status:      string(req.Status),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create job: %w", apperrors.MapGormError(err))
	}
	return row.toModel(), nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var row jobRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return row.toModel(), nil
}

// Update replaces the editable fields of a job.
func (r *JobRepo) Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("update job request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	fields := map[string]any{
		"title":       req.Title,
		"location":    req.Location,
		"description": req.Description,
		"salary":      req.Salary,
		"updated_at":  r.clock.Now().UTC(),
	}
	if req.Status != nil {
		fields["status"] = string(*req.Status)
	}

	var row jobRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&jobRow{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&row).Error
	})
	if err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return row.toModel(), nil
}

// ListByPoster returns the jobs a manager posted, newest first.
func (r *JobRepo) ListByPoster(ctx context.Context, uid string) ([]*model.Job, error) {
	return r.list(ctx, "posted_by = ?", uid)
}

// ListByStatus returns jobs in the given status, newest first.
func (r *JobRepo) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return r.list(ctx, "status = ?", string(status))
}

func (r *JobRepo) list(ctx context.Context, where string, arg any) ([]*model.Job, error) {
	var rows []jobRow
	err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("posted_on DESC").Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", apperrors.MapGormError(err))
	}
	out := make([]*model.Job, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// CountByStatus counts jobs in the given status.
func (r *JobRepo) CountByStatus(ctx context.Context, status model.JobStatus) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&jobRow{}).Where("status = ?", string(status)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count jobs: %w", apperrors.MapGormError(err))
	}
	return int(n), nil
}

// DeleteWithApplications deletes the job and its applications in one transaction.
func (r *JobRepo) DeleteWithApplications(ctx context.Context, id string) (int, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apps := tx.Where("job_id = ?", id).Delete(&applicationRow{})
		if apps.Error != nil {
			return apps.Error
		}
		job := tx.Where("id = ?", id).Delete(&jobRow{})
		if job.Error != nil {
			return job.Error
		}
		if job.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		removed = apps.RowsAffected
		return nil
	})
	if err != nil {
		return 0, mapErr(err, msgJobNotFound)
	}
	return int(removed), nil
}

var _ core.JobRepository = (*JobRepo)(nil)
