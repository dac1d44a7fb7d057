// Package lifecycle brings the search machinery up and down: it checks the
// external tools, runs search cycles and tears everything down within a
// bounded time budget.
package lifecycle

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Cyclone1070/quickfind/internal/config"
	"github.com/Cyclone1070/quickfind/internal/logger"
	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/process"
	"github.com/Cyclone1070/quickfind/internal/search"
	"github.com/Cyclone1070/quickfind/internal/store"
)

// State is the manager's position in its lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateCheckingTools
	StateActive
	StateInactive
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateCheckingTools:
		return "checking-tools"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ToolChecker reports whether a binary is discoverable on PATH.
type ToolChecker interface {
	Available(tool string) bool
}

// Killer force-kills every process with the given executable name.
type Killer interface {
	KillByName(ctx context.Context, tool string) error
}

// Notifier surfaces errors to the user.
type Notifier interface {
	Error(msg string)
}

// FileSystem is the view needed to resolve search roots.
type FileSystem interface {
	UserHomeDir() (string, error)
	Stat(path string) (os.FileInfo, error)
}

// Dependencies are the collaborators of a Manager.
type Dependencies struct {
	Config   *config.Config
	FS       FileSystem
	Checker  ToolChecker
	Killer   Killer
	Factory  process.Factory
	Platform platform.Platform
	Store    *store.Store
	Notifier Notifier
	Logger   *slog.Logger
	// OnReport is called from a background goroutine after each finished cycle.
	OnReport func(search.Report)
}

// Manager owns the search state of one load cycle. Create it with New, bring
// it up with Load and always call Teardown on the way out.
type Manager struct {
	deps   Dependencies
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	cfg         config.Config
	home        string
	roots       []string
	signal      *process.CancellationSignal
	coordinator *search.Coordinator
	cancel      context.CancelFunc
	runCtx      context.Context
	cycleDone   chan struct{}
	searched    bool
}

// New creates an unloaded manager.
func New(deps Dependencies) *Manager {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	cfg := config.DefaultConfig()
	if deps.Config != nil {
		cfg = deps.Config
	}
	return &Manager{
		deps:   deps,
		logger: log,
		cfg:    *cfg,
		state:  StateUnloaded,
	}
}

// Load checks both tools and, if they are present, starts the first search
// cycle. A missing tool leaves the manager Inactive and is reported to the
// user exactly once.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.activateLocked(ctx); err != nil {
		return err
	}
	return m.startCycleLocked()
}

// LoadTools is Load without the first search cycle, for one-shot content
// searches that never read the finder results. No finder runs and Teardown
// has nothing to sweep until a Rescan starts a cycle.
func (m *Manager) LoadTools(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.activateLocked(ctx)
}

func (m *Manager) activateLocked(ctx context.Context) error {
	if m.state != StateUnloaded {
		return ErrAlreadyLoaded
	}
	m.state = StateCheckingTools

	for _, tool := range []string{m.cfg.Search.FinderTool, m.cfg.Search.GrepTool} {
		if !m.deps.Checker.Available(tool) {
			m.state = StateInactive
			err := &ToolMissingError{Tool: tool}
			m.logger.Error("required tool missing", "tool", tool)
			if m.deps.Notifier != nil {
				m.deps.Notifier.Error(err.Error())
			}
			return err
		}
	}

	home, err := m.deps.FS.UserHomeDir()
	if err != nil {
		m.logger.Warn("home directory unavailable, ~ will not be expanded", "err", err)
	}
	m.home = home

	m.signal = process.NewCancellationSignal()
	m.coordinator = search.NewCoordinator(search.Dependencies{
		Factory:  m.deps.Factory,
		Platform: m.deps.Platform,
		Store:    m.deps.Store,
		Notifier: m.deps.Notifier,
		Logger:   m.logger,
	}, m.searchOptions())
	m.runCtx, m.cancel = context.WithCancel(context.WithoutCancel(ctx))
	m.state = StateActive

	m.logger.Info("loaded", "finder", m.cfg.Search.FinderTool, "grep", m.cfg.Search.GrepTool)
	return nil
}

func (m *Manager) searchOptions() search.Options {
	return search.Options{
		FinderTool:     m.cfg.Search.FinderTool,
		IncludeHidden:  m.cfg.Search.IncludeHidden,
		MaxResults:     m.cfg.Search.MaxResults,
		Home:           m.home,
		PollInterval:   m.cfg.Process.PollInterval(),
		GracePeriod:    m.cfg.Process.GracePeriod(),
		MaxOutputBytes: m.cfg.Process.MaxOutputBytes,
	}
}

func (m *Manager) startCycleLocked() error {
	m.roots = config.ResolveRoots(m.cfg.Search.Paths, m.home, m.deps.FS)
	if len(m.roots) < len(m.cfg.Search.Paths) {
		m.logger.Warn("some configured paths are not directories", "configured", len(m.cfg.Search.Paths), "usable", len(m.roots))
	}

	if _, err := m.coordinator.Begin(m.runCtx, m.roots, m.signal); err != nil {
		return err
	}
	m.searched = true

	done := make(chan struct{})
	m.cycleDone = done
	reports := m.coordinator.Watch(m.runCtx, m.cfg.Process.PollInterval())
	go func() {
		defer close(done)
		for report := range reports {
			if !report.Cancelled && m.deps.OnReport != nil {
				m.deps.OnReport(report)
			}
		}
	}()
	return nil
}

// Rescan starts a new search cycle with freshly resolved roots.
func (m *Manager) Rescan(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.coordinator.InProgress() {
		return ErrSearchInProgress
	}
	m.logger.Info("rescan requested")
	return m.startCycleLocked()
}

// SetPaths replaces the configured search paths used by the next cycle.
func (m *Manager) SetPaths(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Search.Paths = append([]string(nil), paths...)
}

// WaitCycle blocks until the current cycle finishes and returns its report.
func (m *Manager) WaitCycle(ctx context.Context) (search.Report, error) {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return search.Report{}, ErrDisabled
	}
	done := m.cycleDone
	coordinator := m.coordinator
	m.mu.Unlock()

	if done == nil {
		return search.Report{}, ErrNoCycle
	}

	select {
	case <-done:
		return coordinator.LastReport(), nil
	case <-ctx.Done():
		return search.Report{}, ctx.Err()
	}
}

// Teardown cancels the current cycle and makes sure no finder process
// survives: kill sweep, terminate and bounded join of each worker, kill sweep
// again. It never fails and may be called any number of times.
func (m *Manager) Teardown() {
	m.mu.Lock()
	state := m.state
	signal := m.signal
	coordinator := m.coordinator
	cancel := m.cancel
	searched := m.searched
	m.state = StateUnloaded
	m.signal = nil
	m.coordinator = nil
	m.cancel = nil
	m.cycleDone = nil
	m.searched = false
	m.mu.Unlock()

	if state != StateActive {
		return
	}
	if !searched {
		signal.Set()
		cancel()
		m.logger.Info("teardown complete, no search was started")
		return
	}

	start := time.Now()
	grace := m.cfg.Process.GracePeriod()
	joinTimeout := m.cfg.Process.JoinTimeout()

	signal.Set()
	m.sweep(joinTimeout)

	for _, w := range coordinator.Workers() {
		w.Terminate(grace)
		if !w.Join(joinTimeout) {
			m.logger.Warn("worker did not stop in time", "kind", w.Kind().String(), "timeout", joinTimeout)
		}
	}

	m.sweep(joinTimeout)
	cancel()

	m.logger.Info("teardown complete", "elapsed", time.Since(start))
}

func (m *Manager) sweep(timeout time.Duration) {
	if m.deps.Killer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := m.deps.Killer.KillByName(ctx, m.cfg.Search.FinderTool); err != nil {
		m.logger.Warn("kill sweep failed", "tool", m.cfg.Search.FinderTool, "err", err)
	}
}

// Enabled reports whether commands may run.
func (m *Manager) Enabled() bool {
	return m.State() == StateActive
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Roots returns the search roots of the current cycle.
func (m *Manager) Roots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.roots...)
}

// Home returns the home directory used for ~ expansion.
func (m *Manager) Home() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.home
}

// Config returns a copy of the active configuration.
func (m *Manager) Config() config.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.cfg
	cfg.Search.Paths = append([]string(nil), m.cfg.Search.Paths...)
	return cfg
}

// InProgress reports whether a search cycle is running.
func (m *Manager) InProgress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.coordinator != nil && m.coordinator.InProgress()
}
