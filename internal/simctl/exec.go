package simctl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/mattjoyce/simdeck/internal/log"
)

const (
	// maxStderrBytes caps the stderr kept for error messages.
	maxStderrBytes = 64 * 1024

	// terminationGracePeriod is the time we wait after SIGTERM before sending SIGKILL.
	terminationGracePeriod = 5 * time.Second
)

// Command is one subprocess invocation.
type Command struct {
	Name    string
	Args    []string
	Env     []string
	Timeout time.Duration
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes commands and returns their stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// ExitError is returned when a command exits non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Command, e.ExitCode, msg)
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct {
	logger *slog.Logger
	grace  time.Duration
}

func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger: log.WithComponent("simctl"),
		grace:  terminationGracePeriod,
	}
}

// Run starts cmd and waits for it, enforcing cmd.Timeout and ctx.
func (r *ExecRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	logger := r.logger.With("command", c.String())

	// Not CommandContext: termination is SIGTERM first, SIGKILL after grace.
	cmd := exec.Command(c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("spawning", "timeout", c.Timeout)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", c.Name, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	var timeout <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-timeout:
		logger.Warn("command timed out, sending SIGTERM")
		r.terminate(cmd, waitErr, logger)
		return nil, fmt.Errorf("%s: %w after %s", c.String(), context.DeadlineExceeded, c.Timeout)

	case <-ctx.Done():
		logger.Warn("context cancelled, sending SIGTERM")
		r.terminate(cmd, waitErr, logger)
		return nil, fmt.Errorf("%s: %w", c.String(), ctx.Err())

	case err := <-waitErr:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return stdout.Bytes(), &ExitError{
					Command:  c.String(),
					ExitCode: exitErr.ExitCode(),
					Stderr:   truncateStderr(stderr.String()),
				}
			}
			return nil, fmt.Errorf("wait for %s: %w", c.Name, err)
		}
		return stdout.Bytes(), nil
	}
}

func (r *ExecRunner) terminate(cmd *exec.Cmd, waitErr <-chan error, logger *slog.Logger) {
	if cmd.Process != nil {
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			logger.Error("failed to send SIGTERM", "error", err)
		}
	}

	grace := time.NewTimer(r.grace)
	defer grace.Stop()

	select {
	case <-waitErr:
		logger.Info("command exited after SIGTERM")
	case <-grace.C:
		logger.Warn("command did not exit after SIGTERM, sending SIGKILL")
		if cmd.Process != nil {
			if err := cmd.Process.Kill(); err != nil {
				logger.Error("failed to send SIGKILL", "error", err)
			}
		}
		<-waitErr
	}
}

func truncateStderr(s string) string {
	if len(s) > maxStderrBytes {
		return s[:maxStderrBytes]
	}
	return s
}
