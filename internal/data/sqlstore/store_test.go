package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "jobboard.db"), core.ClockFunc(testutil.FixedTimeFunc(testutil.TestTime())))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_OpenAndPing(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Ping(context.Background()))
	assert.NotNil(t, store.Jobs())
	assert.NotNil(t, store.Applications())
}

func TestJobRepo_CRUD(t *testing.T) {
	store := newTestStore(t)
	jobs := store.Jobs()
	ctx := context.Background()

	job, err := jobs.Create(ctx, testutil.NewJobRequest("mgr-1").WithSalary("").Build())
	require.NoError(t, err)
	_, err = uuid.Parse(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSalary, job.Salary)
	assert.Equal(t, model.JobStatusActive, job.Status)
	assert.True(t, job.CreatedAt.Equal(testutil.TestTime()))

	got, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
	assert.True(t, got.PostedOn.Equal(job.PostedOn))

	closed := model.JobStatusClosed
	updated, err := jobs.Update(ctx, job.ID, &model.UpdateJobRequest{
		Title: "Line Cook", Location: "NYC", Description: "Grill.", Salary: "20/hr", Status: &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Line Cook", updated.Title)
	assert.Equal(t, model.JobStatusClosed, updated.Status)
	assert.Equal(t, "mgr-1", updated.PostedBy)

	_, err = jobs.Update(ctx, uuid.NewString(), &model.UpdateJobRequest{Title: "a", Location: "b", Description: "c"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = jobs.GetByID(ctx, "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Job not found.", apperrors.UserMessage(err))

	_, err = jobs.Create(ctx, testutil.NewJobRequest("").Build())
	assert.True(t, apperrors.IsValidation(err))
}

func TestJobRepo_ListOrderingAndCounts(t *testing.T) {
	store := newTestStore(t)
	jobs := store.Jobs()
	ctx := context.Background()
	base := testutil.TestTime()

	older, err := jobs.Create(ctx, testutil.NewJobRequest("mgr-1").PostedAt(base).Build())
	require.NoError(t, err)
	newer, err := jobs.Create(ctx, testutil.NewJobRequest("mgr-1").PostedAt(base.Add(24*time.Hour)).Build())
	require.NoError(t, err)
	_, err = jobs.Create(ctx, testutil.NewJobRequest("mgr-2").WithStatus(model.JobStatusClosed).Build())
	require.NoError(t, err)

	mine, err := jobs.ListByPoster(ctx, "mgr-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)
	assert.Equal(t, older.ID, mine[1].ID)

	active, err := jobs.ListByStatus(ctx, model.JobStatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	n, err := jobs.CountByStatus(ctx, model.JobStatusActive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestApplicationRepo_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	jobs, apps := store.Jobs(), store.Applications()
	ctx := context.Background()

	a, err := jobs.Create(ctx, testutil.NewJobRequest("mgr-1").WithTitle("A").Build())
	require.NoError(t, err)
	b, err := jobs.Create(ctx, testutil.NewJobRequest("mgr-1").WithTitle("B").Build())
	require.NoError(t, err)

	app, err := apps.Create(ctx, testutil.NewApplicationRequest(a, "w1"))
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)

	_, err = apps.Create(ctx, testutil.NewApplicationRequest(a, "w1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	_, err = apps.Create(ctx, testutil.NewApplicationRequest(&model.Job{ID: uuid.NewString(), PostedBy: "mgr-1"}, "w1"))
	require.Error(t, err, "foreign key must reject unknown jobs")

	_, err = apps.Create(ctx, testutil.NewApplicationRequest(b, "w1"))
	require.NoError(t, err)
	_, err = apps.Create(ctx, testutil.NewApplicationRequest(a, "w2"))
	require.NoError(t, err)

	exists, err := apps.Exists(ctx, "w1", a.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	ids, err := apps.ListJobIDsByWorker(ctx, "w1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	counts, err := apps.CountByJobIDs(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{a.ID: 2, b.ID: 1}, counts)

	n, err := apps.CountByWorker(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byJob, err := apps.ListByJob(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byJob, 2)

	hired, err := apps.UpdateStatus(ctx, app.ID, model.ApplicationStatusHired)
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusHired, hired.Status)

	_, err = apps.UpdateStatus(ctx, app.ID, "Fired")
	assert.True(t, apperrors.IsValidation(err))
	_, err = apps.UpdateStatus(ctx, uuid.NewString(), model.ApplicationStatusHired)
	assert.True(t, apperrors.IsNotFound(err))

	removed, err := jobs.DeleteWithApplications(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := apps.ListByWorker(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].JobID)

	_, err = jobs.DeleteWithApplications(ctx, a.ID)
	assert.True(t, apperrors.IsNotFound(err))
}
