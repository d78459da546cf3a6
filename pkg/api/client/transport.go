package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout is the default timeout for platform requests
const DefaultTimeout = 30 * time.Second

// Request describes a single platform API call.
type Request struct {
	// Method is the HTTP method
	Method string

	// Path is the endpoint path relative to the platform base URL
	Path string

	// Header holds extra headers that override the common ones
	Header map[string]string

	// Body is JSON-encoded when non-nil
	Body interface{}
}

// Response carries the raw platform reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// Requester performs one HTTP exchange with the platform. It reports
// transport failures only; HTTP status interpretation is left to the
// caller. Implementations must be safe for concurrent use.
type Requester interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// agentRequester sends requests with the fiber client agent.
type agentRequester struct {
	baseURL string
	token   string
	timeout time.Duration
}

func newAgentRequester(baseURL, token string, timeout time.Duration) *agentRequester {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &agentRequester{
		baseURL: baseURL,
		token:   token,
		timeout: timeout,
	}
}

// Do sends the request and reads the full response body.
func (r *agentRequester) Do(ctx context.Context, req Request) (*Response, error) {
	// Resolve the endpoint URL
	fullURL := r.baseURL + req.Path

	// Create a new agent based on the HTTP method
	var agent *fiber.Agent
	switch req.Method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", req.Method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(r.timeout)
	}

	// Set common headers. The platform expects the raw token in the
	// Authorization header, without an auth scheme prefix.
	if r.token != "" {
		agent.Set("Authorization", r.token)
	}
	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	for k, v := range req.Header {
		agent.Set(k, v)
	}

	// Add body if provided
	if req.Body != nil {
		agent.JSON(req.Body)
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}

	return &Response{StatusCode: statusCode, Body: body}, nil
}
