package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/photonforge/lattice/internal/logger"
)

// JobStatus represents the lifecycle state of a job as reported by
// the platform.
type JobStatus string

// Job statuses. The wire value for a successfully finished job is
// "complete", not "completed".
const (
	// JobStatusOpen indicates a job accepted but not yet queued
	JobStatusOpen JobStatus = "open"
	// JobStatusQueued indicates a job waiting for execution
	JobStatusQueued JobStatus = "queued"
	// JobStatusCancelled indicates a job cancelled before it finished
	JobStatusCancelled JobStatus = "cancelled"
	// JobStatusCompleted indicates a job that finished successfully
	JobStatusCompleted JobStatus = "complete"
	// JobStatusFailed indicates a job that finished unsuccessfully
	JobStatusFailed JobStatus = "failed"
)

// IsFinal reports whether the status is terminal. A final job never
// changes status again.
func (s JobStatus) IsFinal() bool {
	switch s {
	case JobStatusCancelled, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the wire value of the status
func (s JobStatus) String() string {
	return string(s)
}

// ParseJobStatus validates a status wire value. Statuses outside the
// known set are rejected rather than carried along.
func ParseJobStatus(s string) (JobStatus, error) {
	switch status := JobStatus(s); status {
	case JobStatusOpen, JobStatusQueued, JobStatusCancelled, JobStatusCompleted, JobStatusFailed:
		return status, nil
	default:
		return "", fmt.Errorf("unknown job status: %q", s)
	}
}

// Job tracks a program executing remotely on the platform. It caches
// the last status observed and, once the job completes, its result.
//
// Jobs are created by Connection calls or NewJob, never literally.
// All methods are safe for concurrent use.
type Job struct {
	id     string
	client Client

	mu     sync.Mutex
	status JobStatus
	result *Result
}

// NewJob creates a handle for the job with the given ID and status,
// managed through the given client.
func NewJob(id string, status JobStatus, client Client) *Job {
	return &Job{
		id:     id,
		status: status,
		client: client,
	}
}

// ID returns the platform-assigned job ID.
func (j *Job) ID() string {
	return j.id
}

// Status returns the last observed job status.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Result returns the measurement result of a completed job. Jobs in
// any other status have no result to return. A handle that learned of
// completion through GetJob or GetJobStatus carries only the status;
// its samples come from Connection.GetJobResult.
func (j *Job) Result() (*Result, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status != JobStatusCompleted {
		return nil, fmt.Errorf("%w (current status: %s)", ErrJobNotCompleted, j.status)
	}
	if j.result == nil {
		return nil, fmt.Errorf("%w for job %s; Connection.GetJobResult retrieves it", ErrResultNotFetched, j.id)
	}
	return j.result, nil
}

// Refresh fetches the job's current status from the platform. When it
// observes the transition into the completed status it also fetches
// the result. The status only advances after the result is attached,
// so a failed result fetch leaves the job non-final and a later
// Refresh retries the whole step. Refreshing a final job is a no-op.
func (j *Job) Refresh(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.IsFinal() {
		logger.Warnf("Job %s is already %s; refresh has no effect", j.id, j.status)
		return nil
	}

	status, err := j.client.GetJobStatus(ctx, j.id)
	if err != nil {
		return err
	}

	if status == JobStatusCompleted {
		result, err := j.client.GetJobResult(ctx, j.id)
		if err != nil {
			return err
		}
		j.result = result
	}
	j.status = status
	return nil
}

// Cancel requests cancellation of the job on the platform. A final
// job cannot be cancelled. The cached status is left untouched; the
// cancellation becomes visible through a later Refresh once the
// platform has applied it.
func (j *Job) Cancel(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.IsFinal() {
		return fmt.Errorf("%w: a %s job cannot be cancelled", ErrInvalidJobOperation, j.status)
	}
	return j.client.CancelJob(ctx, j.id)
}

// String implements fmt.Stringer
func (j *Job) String() string {
	return fmt.Sprintf("Job(id=%s, status=%s)", j.id, j.Status())
}
