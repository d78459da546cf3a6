// Package platformtest provides an in-process fake of the Lattice
// platform API. Tests drive job transitions directly on the fake
// while exercising the real client over HTTP.
package platformtest

import (
	"fmt"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/photonforge/lattice/internal/samples"
	"github.com/photonforge/lattice/pkg/api/client"
	"github.com/photonforge/lattice/pkg/api/routes"
)

// Server is a fake platform backed by an in-memory job store.
type Server struct {
	token  string
	server *httptest.Server

	mu   sync.Mutex
	jobs map[string]*jobRecord
}

type jobRecord struct {
	ID      string
	Status  client.JobStatus
	Circuit string
	Samples [][]int64
}

// NewServer starts a fake platform. Requests must carry the given
// token in the Authorization header; an empty token disables the
// check.
func NewServer(token string) *Server {
	s := &Server{
		token: token,
		jobs:  make(map[string]*jobRecord),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get(routes.HealthzPath, s.handleHealthz)
	app.Post(routes.JobsPath, s.handleCreateJob)
	app.Get(routes.JobsPath+"/:id/result", s.handleJobResult)
	app.Get(routes.JobsPath+"/:id", s.handleGetJob)
	app.Patch(routes.JobsPath+"/:id", s.handleCancelJob)

	s.server = httptest.NewServer(adaptor.FiberApp(app))
	return s
}

// URL returns the base URL of the fake platform.
func (s *Server) URL() string {
	return s.server.URL
}

// ClientOptions returns connection options pointed at the fake
// platform, carrying its auth token.
func (s *Server) ClientOptions() (*client.Options, error) {
	u, err := url.Parse(s.server.URL)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return nil, err
	}

	return &client.Options{
		Token:   s.token,
		Host:    u.Hostname(),
		Port:    port,
		UseSSL:  false,
		Timeout: 5 * time.Second,
	}, nil
}

// Close shuts the fake platform down.
func (s *Server) Close() {
	s.server.Close()
}

// Add seeds a job in the given status and returns its ID.
func (s *Server) Add(status client.JobStatus, rows [][]int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.jobs[id] = &jobRecord{
		ID:      id,
		Status:  status,
		Samples: rows,
	}
	return id
}

// JobIDs lists the IDs of all jobs the platform has seen.
func (s *Server) JobIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Complete marks a job complete and installs its result samples.
func (s *Server) Complete(id string, rows [][]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("no such job: %s", id)
	}
	job.Status = client.JobStatusCompleted
	job.Samples = rows
	return nil
}

// Fail marks a job failed.
func (s *Server) Fail(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("no such job: %s", id)
	}
	job.Status = client.JobStatusFailed
	return nil
}

// Status reports a job's current status on the platform side.
func (s *Server) Status(id string) (client.JobStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return "", false
	}
	return job.Status, true
}

// Circuit returns the circuit text a job was submitted with.
func (s *Server) Circuit(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return "", false
	}
	return job.Circuit, true
}

func (s *Server) authorized(c *fiber.Ctx) bool {
	return s.token == "" || c.Get("Authorization") == s.token
}

func sendError(c *fiber.Ctx, status int, code, detail string) error {
	return c.Status(status).JSON(fiber.Map{
		"status_code": status,
		"code":        code,
		"detail":      detail,
	})
}

func (s *Server) handleHealthz(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) handleCreateJob(c *fiber.Ctx) error {
	if !s.authorized(c) {
		return sendError(c, fiber.StatusUnauthorized, "E-AUTH", "invalid authentication token")
	}

	var req struct {
		Circuit string `json:"circuit"`
	}
	if err := c.BodyParser(&req); err != nil || req.Circuit == "" {
		return sendError(c, fiber.StatusBadRequest, "E-MALFORMED", "circuit is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.jobs[id] = &jobRecord{
		ID:      id,
		Status:  client.JobStatusQueued,
		Circuit: req.Circuit,
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     id,
		"status": client.JobStatusQueued,
	})
}

func (s *Server) handleGetJob(c *fiber.Ctx) error {
	if !s.authorized(c) {
		return sendError(c, fiber.StatusUnauthorized, "E-AUTH", "invalid authentication token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[c.Params("id")]
	if !ok {
		return sendError(c, fiber.StatusNotFound, "E-NOT-FOUND", "job not found")
	}
	return c.JSON(fiber.Map{
		"id":     job.ID,
		"status": job.Status,
	})
}

func (s *Server) handleJobResult(c *fiber.Ctx) error {
	if !s.authorized(c) {
		return sendError(c, fiber.StatusUnauthorized, "E-AUTH", "invalid authentication token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[c.Params("id")]
	if !ok {
		return sendError(c, fiber.StatusNotFound, "E-NOT-FOUND", "job not found")
	}
	if job.Status != client.JobStatusCompleted {
		return sendError(c, fiber.StatusConflict, "E-NO-RESULT", "job is not complete")
	}

	payload, err := samples.Encode(job.Samples)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "E-ENCODE", err.Error())
	}
	c.Set("Content-Type", "application/x-numpy")
	return c.Status(fiber.StatusOK).Send(payload)
}

func (s *Server) handleCancelJob(c *fiber.Ctx) error {
	if !s.authorized(c) {
		return sendError(c, fiber.StatusUnauthorized, "E-AUTH", "invalid authentication token")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status != client.JobStatusCancelled.String() {
		return sendError(c, fiber.StatusBadRequest, "E-MALFORMED", "only a cancelled status may be requested")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[c.Params("id")]
	if !ok {
		return sendError(c, fiber.StatusNotFound, "E-NOT-FOUND", "job not found")
	}
	if job.Status.IsFinal() {
		return sendError(c, fiber.StatusConflict, "E-INVALID-OP",
			fmt.Sprintf("a %s job cannot be cancelled", job.Status))
	}

	job.Status = client.JobStatusCancelled
	return c.SendStatus(fiber.StatusNoContent)
}
