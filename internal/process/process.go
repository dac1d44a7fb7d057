// Package process owns external search invocations: starting them, polling
// them in short slices without blocking the caller, capturing their output and
// stopping them gracefully or by force.
package process

import (
	"context"
	"io"
	"os"
	"os/exec"
)

// Process is a started OS process.
type Process interface {
	Wait() error
	Signal(sig os.Signal) error
	Kill() error
	Pid() int
}

// Options configures how a process is started.
type Options struct {
	Dir string
	Env []string
}

// Factory starts processes. Implementations return the process together with
// its stdout and stderr streams, which must be drained before Wait.
type Factory interface {
	Start(ctx context.Context, command []string, opts Options) (Process, io.Reader, io.Reader, error)
}

// OSProcess implements Process for real OS processes.
type OSProcess struct {
	Cmd *exec.Cmd
}

func (p *OSProcess) Wait() error {
	return p.Cmd.Wait()
}

func (p *OSProcess) Kill() error {
	if p.Cmd.Process != nil {
		return p.Cmd.Process.Kill()
	}
	return nil
}

func (p *OSProcess) Signal(sig os.Signal) error {
	if p.Cmd.Process != nil {
		return p.Cmd.Process.Signal(sig)
	}
	return nil
}

func (p *OSProcess) Pid() int {
	if p.Cmd.Process != nil {
		return p.Cmd.Process.Pid
	}
	return 0
}

// OSFactory implements Factory using os/exec.
type OSFactory struct{}

// NewOSFactory creates a Factory that spawns real processes.
func NewOSFactory() *OSFactory {
	return &OSFactory{}
}

// Start launches command. The context is not bound to the process lifetime:
// stopping is the caller's job via Signal/Kill so that graceful shutdown can
// be attempted first.
func (f *OSFactory) Start(ctx context.Context, command []string, opts Options) (Process, io.Reader, io.Reader, error) {
	if len(command) == 0 {
		return nil, nil, nil, os.ErrInvalid
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	// Explicitly close stdin to prevent interactive hangs
	cmd.Stdin = nil

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, err
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, err
	}

	return &OSProcess{Cmd: cmd}, stdout, stderr, nil
}
