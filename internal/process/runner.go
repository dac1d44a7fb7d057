package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Cyclone1070/quickfind/internal/logger"
)

// State is the lifecycle position of one search process.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

var stateNames = [...]string{"created", "running", "completed", "cancelled", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s >= StateCompleted
}

// Status is the outcome of a poll. Exited is true once the runner is terminal.
type Status struct {
	Exited   bool
	ExitCode int
}

// terminateSignal is the graceful stop request. Platforms that cannot deliver
// it (Windows) make Signal fail, which escalates straight to Kill.
var terminateSignal os.Signal = syscall.SIGTERM

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	MaxOutputBytes int64
	Logger         *slog.Logger
	// Clock overrides time.Now (for testing).
	Clock func() time.Time
}

// Runner owns one external process invocation from launch to exit.
// All methods are safe for concurrent use.
type Runner struct {
	command []string
	factory Factory
	logger  *slog.Logger
	now     func() time.Time

	stdout *collector
	stderr *collector
	done   chan struct{} // closed once the runner can make no more progress on its own

	// Written by reap before done is closed.
	waitErr  error
	exitedAt time.Time

	mu         sync.Mutex
	state      State
	proc       Process
	cancelled  bool
	startedAt  time.Time
	finishedAt time.Time
	exitCode   int
	lines      []string
	err        error
}

// NewRunner creates a runner for command. Nothing is started until Start or Run.
func NewRunner(factory Factory, command []string, opts RunnerOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	maxBytes := opts.MaxOutputBytes
	if maxBytes <= 0 {
		maxBytes = 256 * 1024 * 1024
	}
	return &Runner{
		command: append([]string(nil), command...),
		factory: factory,
		logger:  log,
		now:     clock,
		stdout:  newCollector(maxBytes),
		stderr:  newCollector(maxBytes),
		done:    make(chan struct{}),
	}
}

// Start spawns the process and returns immediately. A missing or unspawnable
// binary yields a *LaunchError and leaves the runner Failed.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateCreated:
	case StateCancelled:
		return ErrCancelled
	default:
		return ErrAlreadyStarted
	}

	r.startedAt = r.now()
	proc, stdout, stderr, err := r.factory.Start(ctx, r.command, Options{})
	if err != nil {
		r.finishedAt = r.now()
		r.state = StateFailed
		r.err = &LaunchError{Cmd: r.Command(), Cause: err}
		close(r.done)
		return r.err
	}

	r.proc = proc
	r.state = StateRunning
	r.logger.Debug("process started", "cmd", strings.Join(r.command, " "), "pid", proc.Pid())

	go r.reap(proc, stdout, stderr)
	return nil
}

// reap drains both output streams, then waits for the process so its handle
// is always released, whatever happens to the goroutine that started it.
func (r *Runner) reap(proc Process, stdout, stderr io.Reader) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		drain(r.stdout, stdout)
	}()
	go func() {
		defer wg.Done()
		drain(r.stderr, stderr)
	}()
	wg.Wait()

	r.waitErr = proc.Wait()
	r.exitedAt = r.now()
	close(r.done)
}

func drain(dst io.Writer, src io.Reader) {
	if src == nil {
		return
	}
	_, _ = io.Copy(dst, src)
}

// Poll waits at most timeout for the process to exit and never longer.
func (r *Runner) Poll(timeout time.Duration) Status {
	r.mu.Lock()
	state := r.state
	r.mu.Unlock()

	if state == StateCreated {
		return Status{}
	}
	if state.Terminal() {
		return r.status()
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.done:
		r.finish()
		return r.status()
	case <-timer.C:
		return Status{}
	}
}

func (r *Runner) status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{Exited: r.state.Terminal(), ExitCode: r.exitCode}
}

// finish records the terminal state once the reaper is done.
func (r *Runner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return
	}

	r.finishedAt = r.exitedAt
	r.exitCode = exitCode(r.waitErr)

	switch {
	case r.cancelled:
		r.state = StateCancelled
		r.err = ErrCancelled
	case r.waitErr == nil:
		r.lines = decodeLines(r.stdout.Bytes(), r.stdout.Truncated())
		if r.stdout.Truncated() {
			r.logger.Warn("process output truncated", "cmd", strings.Join(r.command, " "), "lines", len(r.lines))
		}
		r.state = StateCompleted
	default:
		r.state = StateFailed
		r.err = &ProcessError{Cmd: r.Command(), ExitCode: r.exitCode, Stderr: r.stderr.String()}
	}
}

// refresh picks up an exit that nobody has polled for yet.
func (r *Runner) refresh() {
	select {
	case <-r.done:
		r.finish()
	default:
	}
}

// Terminate asks the process to stop, waits up to grace, then kills it.
// Errors from processes that are already gone are ignored. A runner that was
// never started is marked cancelled.
func (r *Runner) Terminate(grace time.Duration) {
	r.mu.Lock()
	proc := r.proc
	switch r.state {
	case StateCreated:
		r.state = StateCancelled
		r.cancelled = true
		r.err = ErrCancelled
		r.finishedAt = r.now()
		close(r.done)
		r.mu.Unlock()
		return
	case StateRunning:
		r.cancelled = true
	default:
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return
	default:
	}

	if err := proc.Signal(terminateSignal); err != nil {
		r.logger.Debug("graceful stop failed, killing", "pid", proc.Pid(), "err", err)
		r.kill(proc)
		return
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-r.done:
	case <-timer.C:
		r.logger.Debug("process ignored stop request, killing", "pid", proc.Pid(), "grace", grace)
		r.kill(proc)
	}
}

func (r *Runner) kill(proc Process) {
	if err := proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		r.logger.Debug("kill failed", "pid", proc.Pid(), "err", err)
	}
}

// Run is the worker body: start the process, then poll it in slices,
// re-checking the cancellation signal between slices. On cancellation the
// process is terminated and ErrCancelled returned. Otherwise Run returns the
// runner's final error (nil on success).
func (r *Runner) Run(ctx context.Context, signal *CancellationSignal, slice, grace time.Duration) error {
	if signal.IsSet() || ctx.Err() != nil {
		r.Terminate(grace)
		return ErrCancelled
	}

	if err := r.Start(ctx); err != nil {
		return err
	}

	for {
		if signal.IsSet() || ctx.Err() != nil {
			r.Terminate(grace)
			r.Poll(grace)
			return ErrCancelled
		}
		if st := r.Poll(slice); st.Exited {
			return r.Err()
		}
	}
}

// Done is closed once the process has been reaped (or never will be started).
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.refresh()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Err returns the launch, process or cancellation error, if any.
func (r *Runner) Err() error {
	r.refresh()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Lines returns the decoded output lines of a completed run.
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Elapsed returns wall-clock time since start, frozen once the process exits.
func (r *Runner) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.startedAt.IsZero():
		return 0
	case r.finishedAt.IsZero():
		return r.now().Sub(r.startedAt)
	default:
		return r.finishedAt.Sub(r.startedAt)
	}
}

// Command returns a copy of the command line.
func (r *Runner) Command() []string {
	return append([]string(nil), r.command...)
}

// decodeLines turns raw stdout into result lines: invalid UTF-8 is replaced,
// CRLF endings are tolerated, the blank entry after the final newline is
// dropped, and so is a partial last line when output was truncated.
func decodeLines(data []byte, truncated bool) []string {
	text := strings.ToValidUTF8(string(data), "�")
	if truncated {
		if i := strings.LastIndexByte(text, '\n'); i >= 0 {
			text = text[:i+1]
		} else {
			text = ""
		}
	}
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
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
