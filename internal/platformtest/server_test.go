package platformtest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photonforge/lattice/internal/platformtest"
	"github.com/photonforge/lattice/pkg/api/client"
	"github.com/photonforge/lattice/pkg/circuit"
	"github.com/photonforge/lattice/pkg/engine"
)

const testScript = `name lifecycle
version 1.0
target chip0 (shots=10)

bs 0.785 0 1
ps 1.571 1
bs 0.5 1 2
measure
`

func newConnection(t *testing.T, srv *platformtest.Server) *client.Connection {
	t.Helper()

	opts, err := srv.ClientOptions()
	require.NoError(t, err)

	conn, err := client.NewConnection(opts)
	require.NoError(t, err)
	return conn
}

func testProgram(t *testing.T) *circuit.Program {
	t.Helper()

	prog, err := circuit.Parse(testScript)
	require.NoError(t, err)
	return prog
}

// TestJobLifecycle walks a job through the full platform flow:
// - submission lands the program on the platform in a queued state
// - refreshing reflects platform-side transitions
// - completion delivers decoded samples through the job
// - a complete job refuses cancellation
func TestJobLifecycle(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	conn := newConnection(t, srv)
	ctx := context.Background()

	job, err := conn.CreateJob(ctx, "chip1", testProgram(t), 25)
	require.NoError(t, err)
	assert.Equal(t, client.JobStatusQueued, job.Status())

	submitted, ok := srv.Circuit(job.ID())
	require.True(t, ok)
	assert.Contains(t, submitted, "target chip1 (shots=25)")
	assert.Contains(t, submitted, "bs 0.785 0 1")

	// Nothing has moved on the platform yet.
	require.NoError(t, job.Refresh(ctx))
	assert.Equal(t, client.JobStatusQueued, job.Status())
	_, err = job.Result()
	require.ErrorIs(t, err, client.ErrJobNotCompleted)

	rows := [][]int64{{0, 1, 0, 2}, {1, 0, 0, 0}}
	require.NoError(t, srv.Complete(job.ID(), rows))

	require.NoError(t, job.Refresh(ctx))
	assert.Equal(t, client.JobStatusCompleted, job.Status())

	result, err := job.Result()
	require.NoError(t, err)
	assert.Equal(t, rows, result.Samples())

	err = job.Cancel(ctx)
	require.ErrorIs(t, err, client.ErrInvalidJobOperation)

	status, ok := srv.Status(job.ID())
	require.True(t, ok)
	assert.Equal(t, client.JobStatusCompleted, status)
}

// TestResultOfPreexistingJob fetches a handle for a job that finished
// before the client ever saw it. The handle reports completion but the
// samples only come through an explicit result fetch.
func TestResultOfPreexistingJob(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	rows := [][]int64{{0, 1, 0, 2}, {1, 0, 0, 0}}
	id := srv.Add(client.JobStatusCompleted, rows)

	conn := newConnection(t, srv)
	ctx := context.Background()

	job, err := conn.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, client.JobStatusCompleted, job.Status())

	result, err := job.Result()
	assert.Nil(t, result)
	require.ErrorIs(t, err, client.ErrResultNotFetched)

	// Waiting on such a handle reports the same gap rather than a nil
	// result.
	eng := engine.New(conn, "chip0")
	_, err = eng.Wait(ctx, job)
	require.ErrorIs(t, err, client.ErrResultNotFetched)

	result, err = conn.GetJobResult(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rows, result.Samples())
}

// TestCancelFlow verifies cancellation over the wire:
// - a pending job cancels with no content in the reply
// - the platform refuses to cancel a job that is already final
func TestCancelFlow(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	conn := newConnection(t, srv)
	ctx := context.Background()

	job, err := conn.CreateJob(ctx, "chip0", testProgram(t), 0)
	require.NoError(t, err)

	require.NoError(t, job.Cancel(ctx))

	// The local snapshot is stale until the next refresh.
	assert.Equal(t, client.JobStatusQueued, job.Status())
	require.NoError(t, job.Refresh(ctx))
	assert.Equal(t, client.JobStatusCancelled, job.Status())

	err = conn.CancelJob(ctx, job.ID())
	var reqErr *client.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 409, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "409 (E-INVALID-OP): a cancelled job cannot be cancelled")
}

// TestEngineRunAgainstPlatform drives Run end to end over HTTP. A
// background goroutine plays the platform's scheduler and completes
// the job once it shows up.
func TestEngineRunAgainstPlatform(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	conn := newConnection(t, srv)
	eng := engine.New(conn, "chip2")
	eng.PollInterval = 10 * time.Millisecond

	rows := [][]int64{{0, 1, 0, 2, 1, 0, 0, 0}}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if ids := srv.JobIDs(); len(ids) > 0 {
				srv.Complete(ids[0], rows)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	result, err := eng.Run(context.Background(), testProgram(t), 123)
	<-done
	require.NoError(t, err)
	assert.Equal(t, rows, result.Samples())

	ids := srv.JobIDs()
	require.Len(t, ids, 1)
	submitted, ok := srv.Circuit(ids[0])
	require.True(t, ok)
	assert.Contains(t, submitted, "target chip2 (shots=123)")
}

// TestEngineWaitObservesFailure fails the job platform-side while the
// engine is polling and expects Wait to surface it.
func TestEngineWaitObservesFailure(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	conn := newConnection(t, srv)
	ctx := context.Background()

	job, err := conn.CreateJob(ctx, "chip0", testProgram(t), 5)
	require.NoError(t, err)
	require.NoError(t, srv.Fail(job.ID()))

	eng := engine.New(conn, "chip0")
	eng.PollInterval = 10 * time.Millisecond

	_, err = eng.Wait(ctx, job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
	assert.Equal(t, client.JobStatusFailed, job.Status())
}

// TestAuthRejection sends a wrong token and expects structured
// platform errors on every authenticated endpoint. The health check
// stays open.
func TestAuthRejection(t *testing.T) {
	srv := platformtest.NewServer("secret")
	defer srv.Close()

	opts, err := srv.ClientOptions()
	require.NoError(t, err)
	opts.Token = "wrong"

	conn, err := client.NewConnection(opts)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = conn.CreateJob(ctx, "chip0", testProgram(t), 1)
	var reqErr *client.RequestFailedError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 401, reqErr.StatusCode)
	assert.Contains(t, err.Error(), "401 (E-AUTH): invalid authentication token")

	_, err = conn.GetJob(ctx, "any")
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, 401, reqErr.StatusCode)

	assert.True(t, conn.Ping(ctx), "health check should not require auth")
}

// TestPlatformErrors covers the remaining error replies:
// - unknown jobs are 404s with a structured body
// - a result request on a pending job is a 409
// - submitting an empty circuit is rejected before a job is created
func TestPlatformErrors(t *testing.T) {
	srv := platformtest.NewServer("test-token")
	defer srv.Close()

	conn := newConnection(t, srv)
	ctx := context.Background()

	t.Run("unknown job", func(t *testing.T) {
		_, err := conn.GetJob(ctx, "does-not-exist")
		var reqErr *client.RequestFailedError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 404, reqErr.StatusCode)
		assert.Contains(t, err.Error(), "404 (E-NOT-FOUND): job not found")
	})

	t.Run("result before completion", func(t *testing.T) {
		id := srv.Add(client.JobStatusOpen, nil)

		_, err := conn.GetJobResult(ctx, id)
		var reqErr *client.RequestFailedError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, 409, reqErr.StatusCode)
		assert.Contains(t, err.Error(), "409 (E-NO-RESULT): job is not complete")
	})

	t.Run("rejected submission leaves no job behind", func(t *testing.T) {
		before := len(srv.JobIDs())

		prog := testProgram(t)
		_, err := conn.CreateJob(ctx, "", prog, 1)
		require.Error(t, err)
		assert.False(t, errors.As(err, new(*client.RequestFailedError)),
			"serialization failures should not reach the platform")
		assert.Len(t, srv.JobIDs(), before)
	})
}
