// Package mock provides a hand-rolled Client implementation for
// testing job lifecycle logic without a platform.
package mock

import (
	"context"
	"time"

	"github.com/photonforge/lattice/pkg/api/client"
	"github.com/photonforge/lattice/pkg/circuit"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	// Function fields that can be set to mock behavior
	CreateJobFn    func(ctx context.Context, target string, program *circuit.Program, shots int) (*client.Job, error)
	ListJobsFn     func(ctx context.Context, createdAfter time.Time) ([]*client.Job, error)
	GetJobFn       func(ctx context.Context, id string) (*client.Job, error)
	GetJobStatusFn func(ctx context.Context, id string) (client.JobStatus, error)
	GetJobResultFn func(ctx context.Context, id string) (*client.Result, error)
	CancelJobFn    func(ctx context.Context, id string) error
	PingFn         func(ctx context.Context) bool

	// Call tracking for verification
	CreateJobCalls []struct {
		Ctx     context.Context
		Target  string
		Program *circuit.Program
		Shots   int
	}
	ListJobsCalls []struct {
		Ctx          context.Context
		CreatedAfter time.Time
	}
	GetJobCalls []struct {
		Ctx context.Context
		ID  string
	}
	GetJobStatusCalls []struct {
		Ctx context.Context
		ID  string
	}
	GetJobResultCalls []struct {
		Ctx context.Context
		ID  string
	}
	CancelJobCalls []struct {
		Ctx context.Context
		ID  string
	}
	PingCalls []struct {
		Ctx context.Context
	}
}

// Ensure MockClient implements Client interface
var _ client.Client = (*MockClient)(nil)

// CreateJob mocks the CreateJob method
func (m *MockClient) CreateJob(ctx context.Context, target string, program *circuit.Program, shots int) (*client.Job, error) {
	// Record this call
	m.CreateJobCalls = append(m.CreateJobCalls, struct {
		Ctx     context.Context
		Target  string
		Program *circuit.Program
		Shots   int
	}{
		Ctx:     ctx,
		Target:  target,
		Program: program,
		Shots:   shots,
	})

	// Return mock implementation if provided
	if m.CreateJobFn != nil {
		return m.CreateJobFn(ctx, target, program, shots)
	}

	// Default mock implementation
	return client.NewJob("mock-job-id", client.JobStatusQueued, m), nil
}

// ListJobs mocks the ListJobs method
func (m *MockClient) ListJobs(ctx context.Context, createdAfter time.Time) ([]*client.Job, error) {
	// Record this call
	m.ListJobsCalls = append(m.ListJobsCalls, struct {
		Ctx          context.Context
		CreatedAfter time.Time
	}{
		Ctx:          ctx,
		CreatedAfter: createdAfter,
	})

	// Return mock implementation if provided
	if m.ListJobsFn != nil {
		return m.ListJobsFn(ctx, createdAfter)
	}

	// Default mock implementation mirrors the platform gap
	return nil, client.ErrNotImplemented
}

// GetJob mocks the GetJob method
func (m *MockClient) GetJob(ctx context.Context, id string) (*client.Job, error) {
	// Record this call
	m.GetJobCalls = append(m.GetJobCalls, struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	})

	// Return mock implementation if provided
	if m.GetJobFn != nil {
		return m.GetJobFn(ctx, id)
	}

	// Default mock implementation
	return client.NewJob(id, client.JobStatusQueued, m), nil
}

// GetJobStatus mocks the GetJobStatus method
func (m *MockClient) GetJobStatus(ctx context.Context, id string) (client.JobStatus, error) {
	// Record this call
	m.GetJobStatusCalls = append(m.GetJobStatusCalls, struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	})

	// Return mock implementation if provided
	if m.GetJobStatusFn != nil {
		return m.GetJobStatusFn(ctx, id)
	}

	// Default mock implementation
	return client.JobStatusQueued, nil
}

// GetJobResult mocks the GetJobResult method
func (m *MockClient) GetJobResult(ctx context.Context, id string) (*client.Result, error) {
	// Record this call
	m.GetJobResultCalls = append(m.GetJobResultCalls, struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	})

	// Return mock implementation if provided
	if m.GetJobResultFn != nil {
		return m.GetJobResultFn(ctx, id)
	}

	// Default mock implementation
	return client.NewResult([][]int64{{0, 0, 0, 0}}, false), nil
}

// CancelJob mocks the CancelJob method
func (m *MockClient) CancelJob(ctx context.Context, id string) error {
	// Record this call
	m.CancelJobCalls = append(m.CancelJobCalls, struct {
		Ctx context.Context
		ID  string
	}{
		Ctx: ctx,
		ID:  id,
	})

	// Return mock implementation if provided
	if m.CancelJobFn != nil {
		return m.CancelJobFn(ctx, id)
	}

	// Default mock implementation
	return nil
}

// Ping mocks the Ping method
func (m *MockClient) Ping(ctx context.Context) bool {
	// Record this call
	m.PingCalls = append(m.PingCalls, struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	})

	// Return mock implementation if provided
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}

	// Default mock implementation
	return true
}
