package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingCommand(t *testing.T) {
	mockClient, outputBuf := setupCommandTest(t)

	RootCmd.SetArgs([]string{"ping"})
	err := RootCmd.Execute()
	require.NoError(t, err, "Command execution failed")

	require.Len(t, mockClient.PingCalls, 1, "Ping should be called once")
	assert.Contains(t, outputBuf.String(), "Platform is reachable")
}

func TestPingCommandUnreachable(t *testing.T) {
	mockClient, _ := setupCommandTest(t)

	mockClient.PingFn = func(_ context.Context) bool {
		return false
	}

	RootCmd.SetArgs([]string{"ping"})
	err := RootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "platform is not reachable")
}
