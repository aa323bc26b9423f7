package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobboard/internal/core"
	"github.com/target/jobboard/internal/domain/model"
	apperrors "github.com/target/jobboard/internal/errors"
	"github.com/target/jobboard/internal/mocks"
	"go.uber.org/mock/gomock"
)

type jobFixture struct {
	jobs *mocks.MockJobRepository
	apps *mocks.MockApplicationRepository
	svc  *JobService
}

func newJobFixture(t *testing.T) jobFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := jobFixture{
		jobs: mocks.NewMockJobRepository(ctrl),
		apps: mocks.NewMockApplicationRepository(ctrl),
	}
	f.svc = NewJobService(JobServiceOptions{
		Jobs:         f.jobs,
		Applications: f.apps,
		Clock:        core.ClockFunc(func() time.Time { return fixedNow }),
	})
	return f
}

func TestNewJobService_PanicsWithoutRepos(t *testing.T) {
	assert.Panics(t, func() { NewJobService(JobServiceOptions{}) })
}

func TestJobService_ListForManager(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()

	jobs := []*model.Job{{ID: "j2", PostedBy: "m"}, {ID: "j1", PostedBy: "m"}}
	f.jobs.EXPECT().ListByPoster(ctx, "m").Return(jobs, nil)
	f.apps.EXPECT().CountByJobIDs(ctx, []string{"j2", "j1"}).Return(map[string]int{"j1": 3}, nil)

	got, err := f.svc.ListForManager(ctx, "m")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "j2", got[0].ID)
	assert.Equal(t, 0, got[0].AppCount)
	assert.Equal(t, 3, got[1].AppCount)
}

func TestJobService_Create(t *testing.T) {
	f := newJobFixture(t)
	ctx := context.Background()

	f.jobs.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req *model.CreateJobRequest) (*model.Job, error) {
		assert.Equal(t, "m", req.PostedBy)
		assert.Equal(t, model.JobStatusActive, req.Status)
		assert.Equal(t, fixedNow, req.PostedOn)
		return &model.Job{ID: "j1", Title: req.Title, PostedBy: req.PostedBy, Status: req.Status}, nil
	})

	job, err := f.svc.Create(ctx, "m", JobInput{Title: "Cook", Location: "NYC", Description: "d", Salary: "15/hr"})
	require.NoError(t, err)
	assert.Equal(t, "j1", job.ID)
}

func TestJobService_OwnershipIsEnforced(t *testing.T) {
	ctx := context.Background()
	foreign := &model.Job{ID: "j1", PostedBy: "owner"}

	t.Run("update by non-owner never writes", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(foreign, nil)
		_, err := f.svc.Update(ctx, "intruder", "j1", JobInput{Title: "x"})
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("delete by non-owner never deletes", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(foreign, nil)
		_, err := f.svc.Delete(ctx, "intruder", "j1")
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("applicants by non-owner never lists", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(foreign, nil)
		_, _, err := f.svc.Applicants(ctx, "intruder", "j1")
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("missing job is not found", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "nope").Return(nil, apperrors.NotFound("Job not found."))
		_, err := f.svc.GetOwned(ctx, "owner", "nope")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestJobService_OwnerOperations(t *testing.T) {
	ctx := context.Background()
	owned := &model.Job{ID: "j1", PostedBy: "m", Title: "Cook"}

	t.Run("update", func(t *testing.T) {
		f := newJobFixture(t)
		closed := model.JobStatusClosed
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(owned, nil)
		f.jobs.EXPECT().Update(ctx, "j1", &model.UpdateJobRequest{Title: "Chef", Location: "NYC", Description: "d", Status: &closed}).
			Return(&model.Job{ID: "j1", Title: "Chef", Status: closed}, nil)

		job, err := f.svc.Update(ctx, "m", "j1", JobInput{Title: "Chef", Location: "NYC", Description: "d", Status: &closed})
		require.NoError(t, err)
		assert.Equal(t, "Chef", job.Title)
	})

	t.Run("delete cascades", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(owned, nil)
		f.jobs.EXPECT().DeleteWithApplications(ctx, "j1").Return(2, nil)
		n, err := f.svc.Delete(ctx, "m", "j1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("applicants", func(t *testing.T) {
		f := newJobFixture(t)
		f.jobs.EXPECT().GetByID(ctx, "j1").Return(owned, nil)
		f.apps.EXPECT().ListByJob(ctx, "j1").Return([]*model.Application{{ID: "a1"}}, nil)
		job, apps, err := f.svc.Applicants(ctx, "m", "j1")
		require.NoError(t, err)
		assert.Equal(t, "Cook", job.Title)
		assert.Len(t, apps, 1)
	})
}
