package mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/Cyclone1070/quickfind/internal/process"
)

// ErrNotFound mimics exec's error for a binary missing from PATH.
var ErrNotFound = errors.New("executable file not found in $PATH")

// MockExitError mimics *exec.ExitError.
type MockExitError struct {
	Code int
}

func (e *MockExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }
func (e *MockExitError) ExitCode() int { return e.Code }

// MockProcess implements process.Process. Its output is fixed up front and
// Wait blocks until Exit is called, or until a signal or kill ends it.
type MockProcess struct {
	PID    int
	Stdout string
	Stderr string

	// IgnoreSignals keeps the process alive after Signal, so only Kill ends it.
	IgnoreSignals bool
	SignalFunc    func(sig os.Signal) error
	WaitFunc      func() error

	once    sync.Once
	exited  chan struct{}
	exitErr error

	mu      sync.Mutex
	signals []os.Signal
	killed  bool
}

// NewMockProcess creates a running process that will print stdout/stderr.
func NewMockProcess(stdout, stderr string) *MockProcess {
	return &MockProcess{
		PID:    4242,
		Stdout: stdout,
		Stderr: stderr,
		exited: make(chan struct{}),
	}
}

// NewExitedProcess creates a process that has already finished with err.
func NewExitedProcess(stdout, stderr string, err error) *MockProcess {
	p := NewMockProcess(stdout, stderr)
	p.Exit(err)
	return p
}

// Exit ends the process with err (nil for success). Only the first call counts.
func (p *MockProcess) Exit(err error) {
	p.once.Do(func() {
		p.exitErr = err
		close(p.exited)
	})
}

func (p *MockProcess) Wait() error {
	<-p.exited
	if p.WaitFunc != nil {
		return p.WaitFunc()
	}
	return p.exitErr
}

func (p *MockProcess) Signal(sig os.Signal) error {
	p.mu.Lock()
	p.signals = append(p.signals, sig)
	p.mu.Unlock()

	if p.SignalFunc != nil {
		return p.SignalFunc(sig)
	}
	if !p.IgnoreSignals {
		p.Exit(&MockExitError{Code: -1})
	}
	return nil
}

func (p *MockProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.Exit(&MockExitError{Code: -1})
	return nil
}

func (p *MockProcess) Pid() int { return p.PID }

// Signals returns the signals received so far.
func (p *MockProcess) Signals() []os.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]os.Signal(nil), p.signals...)
}

// Killed reports whether Kill was called.
func (p *MockProcess) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Exited reports whether the process has ended.
func (p *MockProcess) Exited() bool {
	select {
	case <-p.exited:
		return true
	default:
		return false
	}
}

// MockFactory implements process.Factory, routing each command to Handler.
type MockFactory struct {
	// Handler returns the process to hand out for command, or a launch error.
	// A nil Handler starts processes that succeed immediately with no output.
	Handler func(command []string) (*MockProcess, error)

	mu       sync.Mutex
	commands [][]string
	started  []*MockProcess
}

func (f *MockFactory) Start(ctx context.Context, command []string, opts process.Options) (process.Process, io.Reader, io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}

	f.mu.Lock()
	f.commands = append(f.commands, append([]string(nil), command...))
	f.mu.Unlock()

	var (
		p   *MockProcess
		err error
	)
	if f.Handler != nil {
		p, err = f.Handler(command)
	} else {
		p = NewExitedProcess("", "", nil)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	f.mu.Lock()
	f.started = append(f.started, p)
	f.mu.Unlock()

	return p, strings.NewReader(p.Stdout), strings.NewReader(p.Stderr), nil
}

// Commands returns every command line passed to Start, in call order.
func (f *MockFactory) Commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.commands))
	copy(out, f.commands)
	return out
}

// Started returns the processes handed out so far.
func (f *MockFactory) Started() []*MockProcess {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*MockProcess(nil), f.started...)
}
