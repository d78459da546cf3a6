// Package routes defines the platform API endpoints and URL structure.
package routes

import (
	"fmt"
	"net/url"
)

// API base configuration
const (
	// DefaultHost is the default platform host
	DefaultHost = "localhost"
	// DefaultPort is the default platform port
	DefaultPort = 443

	// JobsPath is the job collection endpoint
	JobsPath = "/jobs"
	// HealthzPath is the platform liveness endpoint
	HealthzPath = "/healthz"
)

// BaseURL builds the platform base URL from its parts.
func BaseURL(host string, port int, useSSL bool) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

// JobsURL returns the URL for creating jobs.
func JobsURL() string {
	return JobsPath
}

// JobURL returns the URL for a single job.
func JobURL(id string) string {
	return fmt.Sprintf("%s/%s", JobsPath, url.PathEscape(id))
}

// JobResultURL returns the URL for a job's result payload.
func JobResultURL(id string) string {
	return JobURL(id) + "/result"
}

// HealthzURL returns the URL for the health check endpoint.
func HealthzURL() string {
	return HealthzPath
}
