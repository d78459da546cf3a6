// Package engine runs photonic programs on the platform and waits
// for their results.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/photonforge/lattice/internal/logger"
	"github.com/photonforge/lattice/pkg/api/client"
	"github.com/photonforge/lattice/pkg/circuit"
)

// DefaultPollInterval is the default delay between job refreshes
const DefaultPollInterval = time.Second

// Engine submits programs to a platform target and polls the
// resulting jobs until they finish.
type Engine struct {
	client client.Client
	target string

	// PollInterval is the delay between job refreshes. Zero means
	// DefaultPollInterval.
	PollInterval time.Duration
}

// New creates an engine for the given execution target.
func New(c client.Client, target string) *Engine {
	return &Engine{
		client:       c,
		target:       target,
		PollInterval: DefaultPollInterval,
	}
}

// Target returns the execution target.
func (e *Engine) Target() string {
	return e.target
}

// Run submits the program and waits for its result. A shot count
// below one falls back to the program's own shot count, then to a
// single shot. Run returns once the job reaches a final status: the
// result when it completes, an error when it fails, is cancelled, or
// the context ends first.
func (e *Engine) Run(ctx context.Context, prog *circuit.Program, shots int) (*client.Result, error) {
	if shots < 1 && prog != nil {
		shots = prog.Shots
	}
	if shots < 1 {
		shots = 1
	}

	job, err := e.client.CreateJob(ctx, e.target, prog, shots)
	if err != nil {
		return nil, err
	}
	logger.Infof("Job %s submitted to target %s (%d shots)", job.ID(), e.target, shots)

	return e.Wait(ctx, job)
}

// Wait polls the job until it reaches a final status. Refresh errors
// are returned as they happen; there is no retry policy beyond the
// next caller-initiated attempt.
func (e *Engine) Wait(ctx context.Context, job *client.Job) (*client.Result, error) {
	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for !job.Status().IsFinal() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}

		if err := job.Refresh(ctx); err != nil {
			return nil, err
		}
		logger.Debugf("Job %s is %s", job.ID(), job.Status())
	}

	switch job.Status() {
	case client.JobStatusCompleted:
		return job.Result()
	case client.JobStatusCancelled:
		return nil, fmt.Errorf("job %s was cancelled", job.ID())
	default:
		return nil, fmt.Errorf("job %s failed", job.ID())
	}
}
