package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/testutil"
)

func seedJob(t *testing.T, db *sql.DB, managerID string) *model.Job {
	t.Helper()
	job, err := NewJobRepo(db).Create(context.Background(), testutil.NewJobRequest(managerID).Build())
	require.NoError(t, err)
	return job
}

func TestApplicationRepo_Create(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()
		job := seedJob(t, db, "mgr-1")

		app, err := repo.Create(ctx, testutil.NewApplicationRequest(job, "w1"))
		require.NoError(t, err)
		assert.NotEmpty(t, app.ID)
		assert.Equal(t, model.ApplicationStatusPending, app.Status)
		assert.Equal(t, job.Title, app.JobTitle)
		assert.Equal(t, "mgr-1", app.ManagerID)

		t.Run("duplicate is a conflict", func(t *testing.T) {
			_, err := repo.Create(ctx, testutil.NewApplicationRequest(job, "w1"))
			require.Error(t, err)
			assert.True(t, apperrors.IsConflict(err))
		})

		t.Run("missing job violates foreign key", func(t *testing.T) {
			req := testutil.NewApplicationRequest(&model.Job{ID: uuid.NewString(), PostedBy: "mgr-1"}, "w1")
			_, err := repo.Create(ctx, req)
			require.Error(t, err)
			assert.True(t, apperrors.IsForeignKey(err))
		})

		t.Run("malformed job id is not found", func(t *testing.T) {
			req := testutil.NewApplicationRequest(&model.Job{ID: "nope", PostedBy: "mgr-1"}, "w1")
			_, err := repo.Create(ctx, req)
			assert.True(t, apperrors.IsNotFound(err))
		})
	})
}

func TestApplicationRepo_Queries(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()
		a := seedJob(t, db, "mgr-1")
		b := seedJob(t, db, "mgr-1")

		first := testutil.NewApplicationRequest(a, "w1")
		_, err := repo.Create(ctx, first)
		require.NoError(t, err)
		second := testutil.NewApplicationRequest(b, "w1")
		second.AppliedOn = testutil.TestTime().Add(time.Hour)
		_, err = repo.Create(ctx, second)
		require.NoError(t, err)
		_, err = repo.Create(ctx, testutil.NewApplicationRequest(a, "w2"))
		require.NoError(t, err)

		exists, err := repo.Exists(ctx, "w1", a.ID)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.Exists(ctx, "w3", a.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		mine, err := repo.ListByWorker(ctx, "w1")
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, b.ID, mine[0].JobID)

		byJob, err := repo.ListByJob(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, byJob, 2)

		ids, err := repo.ListJobIDsByWorker(ctx, "w1")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

		n, err := repo.CountByWorker(ctx, "w2")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		counts, err := repo.CountByJobIDs(ctx, []string{a.ID, b.ID, uuid.NewString(), "bad"})
		require.NoError(t, err)
		assert.Equal(t, map[string]int{a.ID: 2, b.ID: 1}, counts)

		empty, err := repo.CountByJobIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestApplicationRepo_UpdateStatus(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewApplicationRepo(db)
		ctx := context.Background()
		job := seedJob(t, db, "mgr-1")
		app, err := repo.Create(ctx, testutil.NewApplicationRequest(job, "w1"))
		require.NoError(t, err)

		got, err := repo.UpdateStatus(ctx, app.ID, model.ApplicationStatusHired)
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusHired, got.Status)

		_, err = repo.UpdateStatus(ctx, app.ID, "Promoted")
		assert.True(t, apperrors.IsValidation(err))

		_, err = repo.UpdateStatus(ctx, uuid.NewString(), model.ApplicationStatusRejected)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
