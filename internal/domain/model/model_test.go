package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobRequest_NormalizeAndValidate(t *testing.T) {
	req := &CreateJobRequest{
		Title:       "  Cook ",
		Location:    "NYC",
		Description: "Line cook",
		PostedBy:    "mgr-1",
	}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "Cook", req.Title)
	assert.Equal(t, DefaultSalary, req.Salary)
	assert.Equal(t, JobStatusActive, req.Status)
}

func TestCreateJobRequest_Validate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateJobRequest
		wantErr string
	}{
		{"missing title", CreateJobRequest{Location: "x", Description: "x", PostedBy: "m"}, "title is required"},
		{"missing location", CreateJobRequest{Title: "x", Description: "x", PostedBy: "m"}, "location is required"},
		{"missing description", CreateJobRequest{Title: "x", Location: "x", PostedBy: "m"}, "description is required"},
		{"missing poster", CreateJobRequest{Title: "x", Location: "x", Description: "x"}, "posted_by is required"},
		{
			"title too long",
			CreateJobRequest{Title: strings.Repeat("a", 201), Location: "x", Description: "x", PostedBy: "m"},
			"title cannot exceed 200 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize()
			err := req.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestUpdateJobRequest_Validate_Status(t *testing.T) {
	bad := JobStatus("Archived")
	req := &UpdateJobRequest{Title: "t", Location: "l", Description: "d", Status: &bad}
	req.Normalize()
	assert.EqualError(t, req.Validate(), "invalid status")

	closed := JobStatusClosed
	req.Status = &closed
	assert.NoError(t, req.Validate())
}

func TestParseJobStatus(t *testing.T) {
	s, ok := ParseJobStatus(" closed ")
	assert.True(t, ok)
	assert.Equal(t, JobStatusClosed, s)
	_, ok = ParseJobStatus("paused")
	assert.False(t, ok)
}

func TestParseApplicationStatus(t *testing.T) {
	s, ok := ParseApplicationStatus("hired")
	assert.True(t, ok)
	assert.Equal(t, ApplicationStatusHired, s)
	_, ok = ParseApplicationStatus("ghosted")
	assert.False(t, ok)
}

func TestCreateApplicationRequest_DefaultsPending(t *testing.T) {
	req := &CreateApplicationRequest{JobID: "j", WorkerID: "w", ManagerID: "m"}
	require.NoError(t, req.Validate())
	assert.Equal(t, ApplicationStatusPending, req.Status)
}

func TestDisplayDates(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	j := Job{PostedOn: ts}
	a := Application{AppliedOn: ts}
	assert.Equal(t, "Mar 05, 2024", j.PostedOnDisplay())
	assert.Equal(t, "Mar 05, 2024", a.AppliedOnDisplay())
}

func TestJob_OwnedBy(t *testing.T) {
	j := Job{PostedBy: "m1"}
	assert.True(t, j.OwnedBy("m1"))
	assert.False(t, j.OwnedBy("m2"))
	assert.False(t, (&Job{}).OwnedBy(""))
}
