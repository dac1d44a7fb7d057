package process

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCancelled is returned by a runner stopped through the cancellation signal.
	ErrCancelled = errors.New("search cancelled")
	// ErrAlreadyStarted is returned when Start is called twice on one runner.
	ErrAlreadyStarted = errors.New("process already started")
)

// LaunchError is returned when the external binary is missing or cannot be spawned.
type LaunchError struct {
	Cmd   []string
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to start command %s: %v", strings.Join(e.Cmd, " "), e.Cause)
}
func (e *LaunchError) Unwrap() error { return e.Cause }
func (e *LaunchError) IOError() bool { return true }

// ProcessError is returned when the process exits with a non-zero status.
type ProcessError struct {
	Cmd      []string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %s exited with status %d", strings.Join(e.Cmd, " "), e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}
func (e *ProcessError) CommandFailed() bool { return true }
