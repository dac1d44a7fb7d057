package search

import (
	"context"
	"time"

	"github.com/Cyclone1070/quickfind/internal/process"
)

// Worker runs one search request on its own goroutine.
type Worker struct {
	request Request
	runner  *process.Runner
	done    chan struct{}
	err     error
}

func newWorker(request Request, runner *process.Runner) *Worker {
	return &Worker{request: request, runner: runner, done: make(chan struct{})}
}

func (w *Worker) run(ctx context.Context, signal *process.CancellationSignal, slice, grace time.Duration) {
	defer close(w.done)
	w.err = w.runner.Run(ctx, signal, slice, grace)
}

// Kind returns what this worker searches for.
func (w *Worker) Kind() Kind { return w.request.Kind() }

// Runner returns the process runner owned by this worker.
func (w *Worker) Runner() *process.Runner { return w.runner }

// Terminate stops the worker's process, escalating to kill after grace.
func (w *Worker) Terminate(grace time.Duration) { w.runner.Terminate(grace) }

// Join waits up to timeout for the worker goroutine to return.
func (w *Worker) Join(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.done:
		return true
	case <-timer.C:
		return false
	}
}

// Finished reports whether the worker goroutine has returned.
func (w *Worker) Finished() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

// Err returns the run error. Only meaningful once Finished.
func (w *Worker) Err() error {
	if !w.Finished() {
		return nil
	}
	return w.err
}
