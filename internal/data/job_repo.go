package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/data/pgxutil"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
)

const jobColumns = `id, title, location, description, salary, posted_by, posted_on, status, created_at, updated_at`

// JobRepo provides database operations for jobs.
type JobRepo struct {
	DB    *sql.DB
	clock core.Clock
}

// NewJobRepo creates a new JobRepo using the system clock.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, clock: core.SystemClock}
}

// NewJobRepoWithClock creates a JobRepo with a custom clock (useful for tests).
func NewJobRepoWithClock(db *sql.DB, clock core.Clock) *JobRepo {
	return &JobRepo{DB: db, clock: clock}
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

	now := r.clock.Now().UTC()
	postedOn := req.PostedOn
	if postedOn.IsZero() {
		postedOn = now
	}

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO jobs (title, location, description, salary, posted_by, posted_on, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			RETURNING `+jobColumns,
			req.Title, req.Location, req.Description, req.Salary, req.PostedBy, postedOn, string(req.Status), now,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if !validID(id) {
		return nil, apperrors.NotFound(msgJobNotFound)
	}
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return &out, nil
}

// Update replaces the editable fields of a job. The poster is never touched.
func (r *JobRepo) Update(ctx context.Context, id string, req *model.UpdateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, errors.New("update job request is required")
	}
	if !validID(id) {
		return nil, apperrors.NotFound(msgJobNotFound)
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	var status *string
	if req.Status != nil {
		s := string(*req.Status)
		status = &s
	}

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE jobs
			SET title = $2, location = $3, description = $4, salary = $5,
			    status = COALESCE($6, status), updated_at = $7
			WHERE id = $1
			RETURNING `+jobColumns,
			id, req.Title, req.Location, req.Description, req.Salary, status, r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return &out, nil
}

// ListByPoster returns the jobs a manager posted, newest first.
func (r *JobRepo) ListByPoster(ctx context.Context, uid string) ([]*model.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE posted_by = $1 ORDER BY posted_on DESC, created_at DESC`, uid)
}

// ListByStatus returns jobs in the given status, newest first.
func (r *JobRepo) ListByStatus(ctx context.Context, status model.JobStatus) ([]*model.Job, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM jobs WHERE status = $1 ORDER BY posted_on DESC, created_at DESC`, string(status))
}

func (r *JobRepo) list(ctx context.Context, query string, arg any) ([]*model.Job, error) {
	var jobs []model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		jobs, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", apperrors.MapDBError(err))
	}
	return toPtrs(jobs), nil
}

// CountByStatus counts jobs in the given status.
func (r *JobRepo) CountByStatus(ctx context.Context, status model.JobStatus) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM jobs WHERE status = $1`, string(status)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

// DeleteWithApplications deletes the job and its applications in one transaction.
func (r *JobRepo) DeleteWithApplications(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, apperrors.NotFound(msgJobNotFound)
	}
	var removed int
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			apps, err := tx.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, id)
			if err != nil {
				return err
			}
			job, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
			if err != nil {
				return err
			}
			if job.RowsAffected() == 0 {
				return apperrors.NotFound(msgJobNotFound)
			}
			removed = int(apps.RowsAffected())
			return nil
		},
	})
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return removed, nil
}

var _ core.JobRepository = (*JobRepo)(nil)
