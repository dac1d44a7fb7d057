package platform

import (
	"context"
	"fmt"
	"os/exec"
)

// ToolChecker reports whether external tools are discoverable on PATH.
type ToolChecker struct {
	lookPath func(file string) (string, error)
}

// NewToolChecker creates a checker backed by exec.LookPath.
func NewToolChecker() *ToolChecker {
	return &ToolChecker{lookPath: exec.LookPath}
}

// NewToolCheckerWithLookPath creates a checker with a custom lookup (for testing).
func NewToolCheckerWithLookPath(lookPath func(file string) (string, error)) *ToolChecker {
	return &ToolChecker{lookPath: lookPath}
}

// Available reports whether tool resolves to an executable.
func (c *ToolChecker) Available(tool string) bool {
	path, err := c.lookPath(tool)
	return err == nil && path != ""
}

// SweepError is returned when the kill-by-name command itself fails.
type SweepError struct {
	Cmd      []string
	ExitCode int
	Cause    error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("kill sweep %v failed (exit %d): %v", e.Cmd, e.ExitCode, e.Cause)
}
func (e *SweepError) Unwrap() error { return e.Cause }

// Sweeper forcefully kills every process with a given tool name.
type Sweeper struct {
	platform Platform
	run      func(ctx context.Context, cmd []string) (int, error)
}

// NewSweeper creates a Sweeper that executes the platform kill command.
func NewSweeper(p Platform) *Sweeper {
	return &Sweeper{platform: p, run: runCommand}
}

// NewSweeperWithRunner creates a Sweeper with a custom command runner (for testing).
func NewSweeperWithRunner(p Platform, run func(ctx context.Context, cmd []string) (int, error)) *Sweeper {
	return &Sweeper{platform: p, run: run}
}

// KillByName runs the kill sweep for tool. Finding nothing to kill is not an error.
func (s *Sweeper) KillByName(ctx context.Context, tool string) error {
	cmd := s.platform.KillCommand(tool)
	code, err := s.run(ctx, cmd)
	if err == nil || s.platform.NoMatchExitCode(code) {
		return nil
	}
	return &SweepError{Cmd: cmd, ExitCode: code, Cause: err}
}

func runCommand(ctx context.Context, cmd []string) (int, error) {
	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	err := c.Run()
	return exitCode(err), err
}

// exitCode extracts the exit code from an error returned by a process.
// Returns 0 if err is nil, the exit code if it's an ExitError, or -1 for unknown error types.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}
