package data

import (
	"context"
	"database/sql"

	"github.com/target/jobboard/internal/core"
)

// PGStore is the Postgres-backed document store.
type PGStore struct {
	db   *sql.DB
	jobs *JobRepo
	apps *ApplicationRepo
}

// NewPGStore wires the Postgres repositories around db. The store owns db and
// closes it on Close.
func NewPGStore(db *sql.DB, clock core.Clock) *PGStore {
	if clock == nil {
		clock = core.SystemClock
	}
	return &PGStore{
		db:   db,
		jobs: NewJobRepoWithClock(db, clock),
		apps: NewApplicationRepoWithClock(db, clock),
	}
}

// Jobs returns the job repository.
func (s *PGStore) Jobs() core.JobRepository { return s.jobs }

// Applications returns the application repository.
func (s *PGStore) Applications() core.ApplicationRepository { return s.apps }

// Ping checks database connectivity.
func (s *PGStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close closes the underlying pool.
func (s *PGStore) Close() error { return s.db.Close() }

var _ core.Store = (*PGStore)(nil)
