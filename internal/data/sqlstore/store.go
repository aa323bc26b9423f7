// Package sqlstore is the embedded SQLite document store, used for local
// development and end-to-end tests. It mirrors the Postgres repositories in
// internal/data on top of gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	msgJobNotFound         = "Job not found."
	msgApplicationNotFound = "Application not found."
)

type jobRow struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null"`
	Location    string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Salary      string    `gorm:"not null;default:N/A"`
	PostedBy    string    `gorm:"not null;index:jobs_posted_by_idx"`
	PostedOn    time.Time `gorm:"not null"`
	Status      string    `gorm:"not null;index:jobs_status_idx"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (jobRow) TableName() string { return "jobs" }

func (r *jobRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *jobRow) toModel() *model.Job {
	return &model.Job{
		ID:          r.ID,
		Title:       r.Title,
		Location:    r.Location,
		Description: r.Description,
		Salary:      r.Salary,
		PostedBy:    r.PostedBy,
		PostedOn:    r.PostedOn.UTC(),
		Status:      model.JobStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type applicationRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	JobID      string    `gorm:"not null;size:36;uniqueIndex:applications_worker_job_key,priority:2;index:applications_job_idx"`
	JobTitle   string    `gorm:"not null"`
	ManagerID  string    `gorm:"not null;index:applications_manager_idx"`
	WorkerID   string    `gorm:"not null;uniqueIndex:applications_worker_job_key,priority:1"`
	WorkerName string    `gorm:"not null"`
	AppliedOn  time.Time `gorm:"not null"`
	Status     string    `gorm:"not null"`
	UpdatedAt  time.Time
	Job        *jobRow `gorm:"foreignKey:JobID;constraint:OnDelete:RESTRICT"`
}

func (applicationRow) TableName() string { return "applications" }

func (r *applicationRow) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *applicationRow) toModel() *model.Application {
	return &model.Application{
		ID:         r.ID,
		JobID:      r.JobID,
		JobTitle:   r.JobTitle,
		ManagerID:  r.ManagerID,
		WorkerID:   r.WorkerID,
		WorkerName: r.WorkerName,
		AppliedOn:  r.AppliedOn.UTC(),
		Status:     model.ApplicationStatus(r.Status),
		UpdatedAt:  r.UpdatedAt.UTC(),
	}
}

// Store is a gorm-backed core.Store on a SQLite file.
type Store struct {
	db   *gorm.DB
	jobs *JobRepo
	apps *ApplicationRepo
}

// Open opens (creating if needed) the SQLite database at path with foreign keys
// enabled and migrates the schema. A nil clock uses the system clock.
func Open(path string, clock core.Clock) (*Store, error) {
	if clock == nil {
		clock = core.SystemClock
	}
	if dir := filepath.Dir(path); dir != "." && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return clock.Now().UTC() },
		Logger:         logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql DB: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&jobRow{}, &applicationRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{
		db:   db,
		jobs: &JobRepo{db: db, clock: clock},
		apps: &ApplicationRepo{db: db, clock: clock},
	}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Jobs returns the job repository.
func (s *Store) Jobs() core.JobRepository { return s.jobs }

// Applications returns the application repository.
func (s *Store) Applications() core.ApplicationRepository { return s.apps }

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func mapErr(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, notFound)
	}
	return apperrors.MapGormError(err)
}

var _ core.Store = (*Store)(nil)
