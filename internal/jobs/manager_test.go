package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gcbaptista/lexidex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJobStartsPending(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeVacuum, "test-index", map[string]string{"operation": "test"})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeVacuum, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "test-index", job.IndexName)
}

func TestExecuteJobTracksProgressAndCompletes(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeAddAllAsync, "test-index", nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		manager.UpdateJobProgress(jobID, 50, 100, "halfway")
		time.Sleep(10 * time.Millisecond)
		manager.UpdateJobProgress(jobID, 100, 100, "done")
		return nil
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		job, err := manager.GetJob(jobID)
		return err == nil && job.Status == model.JobStatusCompleted
	}, time.Second, 5*time.Millisecond)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	require.NotNil(t, job.Progress)
	assert.Equal(t, 100, job.Progress.Current)
	assert.Equal(t, 100, job.Progress.Total)
}

func TestExecuteJobRecordsFailure(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeVacuum, "test-index", nil)
	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return errors.New("boom")
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		job, err := manager.GetJob(jobID)
		return err == nil && job.Status == model.JobStatusFailed
	}, time.Second, 5*time.Millisecond)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.NotEmpty(t, job.Error)
}

func TestGetJobUnknownIDReturnsError(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	_, err := manager.GetJob("does-not-exist")
	assert.Error(t, err)
}

func TestListJobsFiltersByIndexAndStatus(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	manager.CreateJob(model.JobTypeVacuum, "a", nil)
	manager.CreateJob(model.JobTypeVacuum, "b", nil)

	jobs := manager.ListJobs("a", nil)
	require.Len(t, jobs, 1)
	assert.Equal(t, "a", jobs[0].IndexName)

	pending := model.JobStatusPending
	jobs = manager.ListJobs("a", &pending)
	require.Len(t, jobs, 1)
}
