// Package search runs the directory and file finder processes of one search
// cycle side by side and publishes their results into the store once both
// have finished.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Cyclone1070/quickfind/internal/logger"
	"github.com/Cyclone1070/quickfind/internal/pathutil"
	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/process"
	"github.com/Cyclone1070/quickfind/internal/store"
	"github.com/google/uuid"
)

// ErrCycleInProgress is returned by Begin while the previous cycle has not finished.
var ErrCycleInProgress = errors.New("search cycle already in progress")

// Notifier surfaces errors to the user.
type Notifier interface {
	Error(msg string)
}

// Options tune how finder processes are built and supervised.
type Options struct {
	FinderTool     string
	IncludeHidden  bool
	MaxResults     int
	Home           string
	PollInterval   time.Duration
	GracePeriod    time.Duration
	MaxOutputBytes int64
}

// Dependencies are the collaborators of a Coordinator.
type Dependencies struct {
	Factory  process.Factory
	Platform platform.Platform
	Store    *store.Store
	Notifier Notifier
	Logger   *slog.Logger
	// Clock overrides time.Now in runners (for testing).
	Clock func() time.Time
}

// Timing describes one finished search of a cycle.
type Timing struct {
	Kind    Kind
	Elapsed time.Duration
	Count   int
	Err     error
}

// Report summarises a finished cycle.
type Report struct {
	Cycle     string
	Folder    Timing
	File      Timing
	Total     time.Duration
	Cancelled bool
	Errors    []error
}

// Coordinator owns the workers of the current cycle. The only state it shares
// with other goroutines is the cancellation signal and the store.
type Coordinator struct {
	deps Dependencies
	opts Options

	mu       sync.Mutex
	cycle    string
	signal   *process.CancellationSignal
	workers  []*Worker
	finished bool
	report   Report
}

// NewCoordinator creates an idle coordinator.
func NewCoordinator(deps Dependencies, opts Options) *Coordinator {
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	return &Coordinator{deps: deps, opts: opts, finished: true}
}

// Begin starts a new cycle over roots and returns its id without waiting.
// Both finder processes are launched concurrently. With no roots the cycle
// publishes empty results straight away and spawns nothing.
func (c *Coordinator) Begin(ctx context.Context, roots []string, signal *process.CancellationSignal) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.finished {
		return "", ErrCycleInProgress
	}

	cycle := uuid.NewString()
	logger := c.deps.Logger.With("cycle", cycle)
	c.cycle = cycle
	c.signal = signal
	c.workers = nil
	c.report = Report{Cycle: cycle}
	c.finished = false
	c.deps.Store.Reset(cycle)

	if len(roots) == 0 {
		if err := c.deps.Store.Publish(cycle, nil, nil); err != nil {
			return "", err
		}
		c.report.Folder = Timing{Kind: KindDirectory}
		c.report.File = Timing{Kind: KindFile}
		c.finished = true
		logger.Info("no search roots, published empty results")
		return cycle, nil
	}

	for _, kind := range []Kind{KindDirectory, KindFile} {
		req := NewRequest(kind, roots)
		cmd := c.deps.Platform.FindCommand(c.opts.FinderTool, string(req.Kind()), req.Roots(), c.opts.IncludeHidden)
		runner := process.NewRunner(c.deps.Factory, cmd, process.RunnerOptions{
			MaxOutputBytes: c.opts.MaxOutputBytes,
			Logger:         logger.With("kind", kind.String()),
			Clock:          c.deps.Clock,
		})
		w := newWorker(req, runner)
		c.workers = append(c.workers, w)
		go w.run(ctx, signal, c.opts.PollInterval, c.opts.GracePeriod)
	}

	logger.Info("search started", "roots", len(roots))
	return cycle, nil
}

// PollAndMaybePublish checks the current cycle once without blocking. It
// returns true when polling can stop: either both workers finished and their
// results were published, or the cycle was cancelled and nothing was.
func (c *Coordinator) PollAndMaybePublish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.finished {
		return true
	}

	logger := c.deps.Logger.With("cycle", c.cycle)

	if c.signal.IsSet() {
		c.cancelLocked(logger)
		return true
	}
	for _, w := range c.workers {
		if !w.Finished() {
			return false
		}
	}
	for _, w := range c.workers {
		if errors.Is(w.Err(), process.ErrCancelled) {
			c.cancelLocked(logger)
			return true
		}
	}

	results := make(map[Kind][]string, len(c.workers))
	for _, w := range c.workers {
		t := Timing{Kind: w.Kind(), Elapsed: w.Runner().Elapsed(), Err: w.Err()}
		if t.Err != nil {
			c.report.Errors = append(c.report.Errors, t.Err)
			logger.Error("search failed", "kind", w.Kind().String(), "err", t.Err)
			if c.deps.Notifier != nil {
				c.deps.Notifier.Error(fmt.Sprintf("%s search failed: %v", w.Kind(), t.Err))
			}
		} else {
			results[w.Kind()] = c.prettify(w.Runner().Lines(), logger)
			t.Count = len(results[w.Kind()])
		}

		switch w.Kind() {
		case KindDirectory:
			c.report.Folder = t
		case KindFile:
			c.report.File = t
		}
	}
	c.report.Total = max(c.report.Folder.Elapsed, c.report.File.Elapsed)

	if err := c.deps.Store.Publish(c.cycle, results[KindDirectory], results[KindFile]); err != nil {
		logger.Error("publish failed", "err", err)
	}
	c.finished = true

	logger.Info("search completed",
		"folders", c.report.Folder.Count,
		"folder_elapsed", c.report.Folder.Elapsed,
		"files", c.report.File.Count,
		"file_elapsed", c.report.File.Elapsed,
		"total", c.report.Total,
	)
	return true
}

func (c *Coordinator) cancelLocked(logger *slog.Logger) {
	c.report.Cancelled = true
	c.finished = true
	logger.Debug("search cancelled before completion")
}

func (c *Coordinator) prettify(lines []string, logger *slog.Logger) []string {
	if c.opts.MaxResults > 0 && len(lines) > c.opts.MaxResults {
		logger.Warn("result list capped", "found", len(lines), "kept", c.opts.MaxResults)
		lines = lines[:c.opts.MaxResults]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = pathutil.Prettify(l, c.opts.Home)
	}
	return out
}

// Watch polls the current cycle every interval on its own goroutine and
// delivers one Report when the cycle finishes. The channel is closed
// afterwards, or without a value if ctx ends first.
func (c *Coordinator) Watch(ctx context.Context, interval time.Duration) <-chan Report {
	c.mu.Lock()
	signal := c.signal
	c.mu.Unlock()

	var signalled <-chan struct{}
	if signal != nil {
		signalled = signal.Done()
	}

	reports := make(chan Report, 1)
	go func() {
		defer close(reports)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if c.PollAndMaybePublish() {
				reports <- c.LastReport()
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-signalled:
				signalled = nil
			case <-ticker.C:
			}
		}
	}()
	return reports
}

// LastReport returns the report of the current or most recent cycle.
func (c *Coordinator) LastReport() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.report
	r.Errors = append([]error(nil), c.report.Errors...)
	return r
}

// InProgress reports whether a cycle has started and not yet finished.
func (c *Coordinator) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.finished
}

// Cycle returns the id of the current or most recent cycle.
func (c *Coordinator) Cycle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// Workers returns the workers of the current cycle, for teardown.
func (c *Coordinator) Workers() []*Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Worker(nil), c.workers...)
}
