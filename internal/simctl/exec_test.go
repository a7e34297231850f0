//go:build !windows

package simctl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesStdout(t *testing.T) {
	out, err := NewExecRunner().Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "printf hello"},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestExecRunnerPassesEnv(t *testing.T) {
	out, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf %s \"$SIMCTL_CHILD_MODE\""},
		Env:  []string{"SIMCTL_CHILD_MODE=test"},
	})
	require.NoError(t, err)
	assert.Equal(t, "test", string(out))
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	_, err := NewExecRunner().Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo 'Invalid device: X' >&2; exit 3"},
	})
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Contains(t, exitErr.Error(), "Invalid device: X")
}

func TestExecRunnerTimeoutTerminates(t *testing.T) {
	r := NewExecRunner()
	r.grace = 200 * time.Millisecond

	start := time.Now()
	_, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "sleep 30"},
		Timeout: 100 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestExecRunnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := NewExecRunner().Run(ctx, Command{Name: "sh", Args: []string{"-c", "sleep 30"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTruncateStderr(t *testing.T) {
	long := strings.Repeat("x", maxStderrBytes+10)
	assert.Len(t, truncateStderr(long), maxStderrBytes)
	assert.Equal(t, "short", truncateStderr("short"))
}
