// Package jobs tracks the only two operations the lifecycle allows to
// suspend: add_all_async and vacuum. Every other mutating call runs to
// completion synchronously and needs no job of its own.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/internal/logging"
	"github.com/gcbaptista/lexidex/model"
)

// Manager runs and tracks background jobs with a bounded worker pool.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*model.Job
	workers  chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	metrics  *JobMetrics
	logger   logging.Logger
}

// NewManager creates a job manager with maxWorkers concurrent job slots.
func NewManager(maxWorkers int, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.Nop
	}
	return &Manager{
		jobs:     make(map[string]*model.Job),
		workers:  make(chan struct{}, maxWorkers),
		stopChan: make(chan struct{}),
		metrics:  NewJobMetrics(),
		logger:   logger,
	}
}

// Stop waits for all in-flight jobs to finish, then shuts the manager down.
func (m *Manager) Stop() {
	close(m.stopChan)
	m.wg.Wait()
}

// CreateJob registers a new pending job and returns its ID.
func (m *Manager) CreateJob(jobType model.JobType, indexName string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    model.JobStatusPending,
		IndexName: indexName,
		CreatedAt: time.Now(),
		Metadata:  metadata,
	}

	m.jobs[job.ID] = job
	m.metrics.RecordJobCreated(jobType)
	return job.ID
}

// GetJob retrieves a job by ID.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, lexerrors.NewJobNotFoundError(jobID)
	}
	return cloneJob(job), nil
}

// ListJobs returns every job for indexName, optionally filtered by status.
func (m *Manager) ListJobs(indexName string, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Job
	for _, job := range m.jobs {
		if job.IndexName != indexName {
			continue
		}
		if status == nil || job.Status == *status {
			result = append(result, cloneJob(job))
		}
	}
	return result
}

func cloneJob(job *model.Job) *model.Job {
	cp := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		cp.Progress = &progressCopy
	}
	return &cp
}

// ExecuteJob runs jobFunc in a goroutine under a worker-pool slot,
// updating job status and metrics around it.
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
	m.mu.Lock()
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return lexerrors.NewJobNotFoundError(jobID)
	}
	if job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is not in pending status (current: %s)", jobID, job.Status)
	}
	oldStatus := job.Status
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.metrics.RecordJobStatusChange(oldStatus, job.Status)
	m.mu.Unlock()

	select {
	case m.workers <- struct{}{}:
	case <-m.stopChan:
		m.updateJobStatus(jobID, model.JobStatusCancelled, "job manager shutting down")
		return fmt.Errorf("job manager is shutting down")
	}

	m.wg.Add(1)
	go func() {
		defer func() {
			<-m.workers
			m.wg.Done()
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		start := time.Now()
		err := jobFunc(ctx, job)
		elapsed := time.Since(start)

		if err != nil {
			m.updateJobStatus(jobID, model.JobStatusFailed, err.Error())
			m.metrics.RecordJobFailed(job.Type)
			m.logger.Log(logging.LevelError, fmt.Sprintf("job %s (%s) failed after %v: %v", jobID, job.Type, elapsed, err), "")
		} else {
			m.updateJobStatus(jobID, model.JobStatusCompleted, "")
			m.metrics.RecordJobCompleted(job.Type, elapsed)
			m.logger.Log(logging.LevelInfo, fmt.Sprintf("job %s (%s) completed in %v", jobID, job.Type, elapsed), "")
		}
	}()

	return nil
}

// UpdateJobProgress records the progress of a running job.
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

func (m *Manager) updateJobStatus(jobID string, status model.JobStatus, errorMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	oldStatus := job.Status
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	if status == model.JobStatusCompleted || status == model.JobStatusFailed || status == model.JobStatusCancelled {
		now := time.Now()
		job.CompletedAt = &now
	}
	m.metrics.RecordJobStatusChange(oldStatus, status)
}

// CleanupOldJobs removes completed/failed/cancelled jobs older than maxAge.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			cleaned++
		}
	}
	return cleaned
}

// GetMetrics returns a copy of the manager's current job metrics.
func (m *Manager) GetMetrics() JobMetricsData {
	return m.metrics.GetMetrics()
}

// GetJobSuccessRate returns the fraction of finished jobs that completed
// without error.
func (m *Manager) GetJobSuccessRate() float64 {
	return m.metrics.GetSuccessRate()
}

// GetCurrentWorkload returns the number of pending or running jobs.
func (m *Manager) GetCurrentWorkload() int64 {
	return m.metrics.GetCurrentWorkload()
}
