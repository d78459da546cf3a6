// Package client provides the API client for interacting with the
// Lattice platform. A Connection submits photonic programs as jobs,
// tracks their lifecycle and retrieves their measurement results.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/photonforge/lattice/internal/logger"
	"github.com/photonforge/lattice/internal/samples"
	"github.com/photonforge/lattice/pkg/api/routes"
	"github.com/photonforge/lattice/pkg/circuit"
)

// Client is the interface for the platform API client
type Client interface {
	// Job endpoints
	CreateJob(ctx context.Context, target string, program *circuit.Program, shots int) (*Job, error)
	ListJobs(ctx context.Context, createdAfter time.Time) ([]*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	GetJobStatus(ctx context.Context, id string) (JobStatus, error)
	GetJobResult(ctx context.Context, id string) (*Result, error)
	CancelJob(ctx context.Context, id string) error

	// Health check
	Ping(ctx context.Context) bool
}

var _ Client = (*Connection)(nil)

// Options contains configuration options for the platform connection
type Options struct {
	// Token is the platform API authentication token
	Token string

	// Host is the platform hostname
	Host string

	// Port is the platform port
	Port int

	// UseSSL selects https for the platform base URL
	UseSSL bool

	// Timeout is the request timeout
	Timeout time.Duration

	// Transport overrides the HTTP transport, mainly for tests
	Transport Requester
}

// DefaultOptions returns the default connection options
func DefaultOptions() *Options {
	return &Options{
		Host:    routes.DefaultHost,
		Port:    routes.DefaultPort,
		UseSSL:  true,
		Timeout: DefaultTimeout,
	}
}

// Connection implements the Client interface against a remote
// platform instance. It holds no per-job state and is safe for
// concurrent use across any number of jobs.
type Connection struct {
	token     string
	host      string
	port      int
	useSSL    bool
	baseURL   string
	transport Requester
}

// NewConnection creates a platform connection with the given options
func NewConnection(opts *Options) (*Connection, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Host == "" {
		return nil, fmt.Errorf("host is required")
	}
	if opts.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", opts.Port)
	}

	// Validate the base URL
	baseURL := routes.BaseURL(opts.Host, opts.Port, opts.UseSSL)
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	transport := opts.Transport
	if transport == nil {
		transport = newAgentRequester(baseURL, opts.Token, opts.Timeout)
	}

	return &Connection{
		token:     opts.Token,
		host:      opts.Host,
		port:      opts.Port,
		useSSL:    opts.UseSSL,
		baseURL:   baseURL,
		transport: transport,
	}, nil
}

// Token returns the configured API token
func (c *Connection) Token() string { return c.token }

// Host returns the configured platform hostname
func (c *Connection) Host() string { return c.host }

// Port returns the configured platform port
func (c *Connection) Port() int { return c.port }

// UseSSL reports whether the connection uses https
func (c *Connection) UseSSL() bool { return c.useSSL }

// BaseURL returns the platform base URL
func (c *Connection) BaseURL() string { return c.baseURL }

// CreateJob serializes a program for the given target and shot count
// and submits it for execution. The returned job carries the
// platform-assigned ID and initial status.
func (c *Connection) CreateJob(ctx context.Context, target string, program *circuit.Program, shots int) (*Job, error) {
	if program == nil {
		return nil, fmt.Errorf("program is required")
	}
	script, err := program.Serialize(target, shots)
	if err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}

	resp, err := c.transport.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   routes.JobsURL(),
		Body:   createJobRequest{Circuit: script},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("error creating job: %w", newRequestFailedError(resp))
	}

	job, err := c.decodeJob(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error creating job: %w", err)
	}

	logger.Debugf("Job %s submitted to target %s", job.ID(), target)
	return job, nil
}

// ListJobs returns the jobs created after the given time.
//
// The platform does not expose a job listing endpoint yet, so this
// always fails with ErrNotImplemented.
func (c *Connection) ListJobs(_ context.Context, _ time.Time) ([]*Job, error) {
	return nil, fmt.Errorf("error listing jobs: %w", ErrNotImplemented)
}

// GetJob retrieves a job by ID
func (c *Connection) GetJob(ctx context.Context, id string) (*Job, error) {
	if id == "" {
		return nil, fmt.Errorf("job id is required")
	}

	resp, err := c.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   routes.JobURL(id),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting job: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting job: %w", newRequestFailedError(resp))
	}

	job, err := c.decodeJob(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error getting job: %w", err)
	}
	return job, nil
}

// GetJobStatus retrieves the current status of a job by ID
func (c *Connection) GetJobStatus(ctx context.Context, id string) (JobStatus, error) {
	job, err := c.GetJob(ctx, id)
	if err != nil {
		return "", err
	}
	return job.Status(), nil
}

// GetJobResult retrieves the measurement samples of a completed job.
// The platform serves the samples as a binary numpy payload.
func (c *Connection) GetJobResult(ctx context.Context, id string) (*Result, error) {
	if id == "" {
		return nil, fmt.Errorf("job id is required")
	}

	resp, err := c.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   routes.JobResultURL(id),
		Header: map[string]string{"Accept": "application/x-numpy"},
	})
	if err != nil {
		return nil, fmt.Errorf("error getting job result: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting job result: %w", newRequestFailedError(resp))
	}

	rows, err := samples.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error getting job result: %w", err)
	}
	return NewResult(rows, false), nil
}

// CancelJob requests cancellation of a job by ID
func (c *Connection) CancelJob(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("job id is required")
	}

	resp, err := c.transport.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   routes.JobURL(id),
		Body:   cancelJobRequest{Status: JobStatusCancelled.String()},
	})
	if err != nil {
		return fmt.Errorf("error cancelling job: %w", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("error cancelling job: %w", newRequestFailedError(resp))
	}

	logger.Debugf("Job %s cancellation requested", id)
	return nil
}

// Ping checks connectivity to the platform. It reports reachability
// only and never returns an error; transport failures are logged and
// reported as unreachable.
func (c *Connection) Ping(ctx context.Context) bool {
	resp, err := c.transport.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   routes.HealthzURL(),
	})
	if err != nil {
		logger.Warnf("Platform ping failed: %v", err)
		return false
	}
	return resp.StatusCode == http.StatusOK
}

// decodeJob builds a Job from the platform's job representation,
// rejecting statuses outside the known set.
func (c *Connection) decodeJob(body []byte) (*Job, error) {
	var jr jobResponse
	if err := json.Unmarshal(body, &jr); err != nil {
		return nil, fmt.Errorf("error decoding job response: %w", err)
	}
	status, err := ParseJobStatus(jr.Status)
	if err != nil {
		return nil, err
	}
	return NewJob(jr.ID, status, c), nil
}
