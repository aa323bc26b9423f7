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

const applicationColumns = `id, job_id, job_title, manager_id, worker_id, worker_name, applied_on, status, updated_at`

// ApplicationRepo provides database operations for applications.
type ApplicationRepo struct {
	DB    *sql.DB
	clock core.Clock
}

// NewApplicationRepo creates a new ApplicationRepo using the system clock.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, clock: core.SystemClock}
}

// NewApplicationRepoWithClock creates an ApplicationRepo with a custom clock (useful for tests).
func NewApplicationRepoWithClock(db *sql.DB, clock core.Clock) *ApplicationRepo {
	return &ApplicationRepo{DB: db, clock: clock}
}

// Create inserts an application. The (worker_id, job_id) unique index turns a
// concurrent duplicate into a conflict; a missing job violates the foreign key.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	if !validID(req.JobID) {
		return nil, apperrors.NotFound(msgJobNotFound)
	}

	now := r.clock.Now().UTC()
	appliedOn := req.AppliedOn
	if appliedOn.IsZero() {
		appliedOn = now
	}

	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (job_id, job_title, manager_id, worker_id, worker_name, applied_on, status, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+applicationColumns,
			req.JobID, req.JobTitle, req.ManagerID, req.WorkerID, req.WorkerName, appliedOn, string(req.Status), now,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	if !validID(id) {
		return nil, apperrors.NotFound(msgApplicationNotFound)
	}
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, mapErr(err, msgApplicationNotFound)
	}
	return &out, nil
}

// Exists reports whether the worker already applied to the job.
func (r *ApplicationRepo) Exists(ctx context.Context, workerID, jobID string) (bool, error) {
	if !validID(jobID) {
		return false, nil
	}
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM applications WHERE worker_id = $1 AND job_id = $2)`,
		workerID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check application: %w", apperrors.MapDBError(err))
	}
	return exists, nil
}

// ListByJob returns the applications for a job, newest first.
func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	if !validID(jobID) {
		return []*model.Application{}, nil
	}
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_on DESC`, jobID)
}

// ListByWorker returns a worker's applications, newest first.
func (r *ApplicationRepo) ListByWorker(ctx context.Context, workerID string) ([]*model.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE worker_id = $1 ORDER BY applied_on DESC`, workerID)
}

func (r *ApplicationRepo) list(ctx context.Context, query string, arg any) ([]*model.Application, error) {
	var apps []model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		apps, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", apperrors.MapDBError(err))
	}
	return toPtrs(apps), nil
}

// ListJobIDsByWorker returns the ids of the jobs a worker applied to.
func (r *ApplicationRepo) ListJobIDsByWorker(ctx context.Context, workerID string) ([]string, error) {
	var ids []string
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT job_id::text FROM applications WHERE worker_id = $1`, workerID)
		if err != nil {
			return err
		}
		ids, err = pgx.CollectRows(rows, pgx.RowTo[string])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list applied job ids: %w", apperrors.MapDBError(err))
	}
	return ids, nil
}

// CountByWorker counts a worker's applications.
func (r *ApplicationRepo) CountByWorker(ctx context.Context, workerID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE worker_id = $1`, workerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count applications: %w", apperrors.MapDBError(err))
	}
	return n, nil
}

type jobCount struct {
	JobID string `db:"job_id"`
	N     int    `db:"n"`
}

// CountByJobIDs counts applications per job in a single grouped query.
func (r *ApplicationRepo) CountByJobIDs(ctx context.Context, jobIDs []string) (map[string]int, error) {
	out := make(map[string]int, len(jobIDs))
	ids := parseIDs(jobIDs)
	if len(ids) == 0 {
		return out, nil
	}
	var counts []jobCount
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT job_id::text AS job_id, count(*)::int AS n
			FROM applications
			WHERE job_id = ANY($1)
			GROUP BY job_id`, ids)
		if err != nil {
			return err
		}
		counts, err = pgx.CollectRows(rows, pgx.RowToStructByName[jobCount])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("count applications by job: %w", apperrors.MapDBError(err))
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
	if !validID(id) {
		return nil, apperrors.NotFound(msgApplicationNotFound)
	}
	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE applications SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+applicationColumns,
			id, string(status), r.clock.Now().UTC(),
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		return nil, mapErr(err, msgApplicationNotFound)
	}
	return &out, nil
}

var _ core.ApplicationRepository = (*ApplicationRepo)(nil)
