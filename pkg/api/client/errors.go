package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidJobOperation indicates an operation that is not valid
	// for the job's current status, such as cancelling a finished job.
	ErrInvalidJobOperation = errors.New("invalid job operation")

	// ErrJobNotCompleted indicates a result access on a job that has
	// not completed.
	ErrJobNotCompleted = errors.New("job is not complete")

	// ErrResultNotFetched indicates a completed job whose samples were
	// never downloaded from the platform.
	ErrResultNotFetched = errors.New("job result has not been fetched")

	// ErrNotImplemented indicates a platform capability that is not
	// available yet.
	ErrNotImplemented = errors.New("not implemented")
)

// RequestFailedError reports a request the platform rejected or could
// not process. The fields mirror the platform error body; fields the
// platform omitted stay zero.
type RequestFailedError struct {
	StatusCode int
	Code       string
	Detail     string
}

// Error formats the failure as "{status_code} ({code}): {detail}",
// substituting empty strings for absent fields.
func (e *RequestFailedError) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = strconv.Itoa(e.StatusCode)
	}
	return fmt.Sprintf("%s (%s): %s", status, e.Code, e.Detail)
}

// newRequestFailedError maps a non-success platform response to a
// RequestFailedError. A decoded JSON error body is taken verbatim,
// even when it omits the status code; only bodies that are not the
// standard JSON error shape fall back to the HTTP status code with
// the raw body as the detail.
func newRequestFailedError(resp *Response) *RequestFailedError {
	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil {
		return &RequestFailedError{
			StatusCode: body.StatusCode,
			Code:       body.Code,
			Detail:     body.Detail,
		}
	}

	return &RequestFailedError{
		StatusCode: resp.StatusCode,
		Detail:     strings.TrimSpace(string(resp.Body)),
	}
}
