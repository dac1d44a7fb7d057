// Package main is the quickfind command: fuzzy navigation of folders and
// files found by fd, and line search with rg, from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/quickfind/internal/commands"
	"github.com/Cyclone1070/quickfind/internal/config"
	"github.com/Cyclone1070/quickfind/internal/lifecycle"
	"github.com/Cyclone1070/quickfind/internal/logger"
	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/process"
	"github.com/Cyclone1070/quickfind/internal/store"
	"github.com/Cyclone1070/quickfind/internal/ui"
	"github.com/mattn/go-isatty"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// FileSystem is the filesystem view shared by config loading, root
// resolution and selection checks.
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
	Stat(path string) (os.FileInfo, error)
}

// Opener opens selections in the editor.
type Opener interface {
	OpenFile(path string, line int) error
	OpenFolder(path string) error
}

// Dependencies holds the process-level collaborators of the application.
// Tests replace them with mocks.
type Dependencies struct {
	FS        FileSystem
	Factory   process.Factory
	Checker   lifecycle.ToolChecker
	Killer    lifecycle.Killer
	Platform  platform.Platform
	NewOpener func(editor string) Opener
	Getwd     func() (string, error)
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	// LogWriter, when set, receives log records instead of the log file.
	LogWriter io.Writer
}

type osFileSystem struct {
	config.ConfigFileReader
}

func (osFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func defaultDependencies() Dependencies {
	p := platform.Current()
	return Dependencies{
		FS:        osFileSystem{},
		Factory:   process.NewOSFactory(),
		Checker:   platform.NewToolChecker(),
		Killer:    platform.NewSweeper(p),
		Platform:  p,
		NewOpener: func(editor string) Opener { return ui.NewOpener(editor) },
		Getwd:     os.Getwd,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	logLevel   string
	plain      bool
}

// app is one fully wired invocation.
type app struct {
	deps      Dependencies
	cfg       *config.Config
	wd        string
	logger    *slog.Logger
	logPath   string
	logCloser io.Closer
	store     *store.Store
	notifier  *ui.ConsoleNotifier
	manager   *lifecycle.Manager
	service   *commands.Service
	opener    Opener
	plain     bool
}

func newApp(deps Dependencies, flags *globalFlags) (*app, error) {
	wd, err := deps.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := newLoader(deps, flags).Load(wd)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: failed to load config: %v\n", err)
		fmt.Fprintf(deps.Stderr, "Using default configuration.\n")
		cfg = config.DefaultConfig()
	}
	if flags.logLevel != "" {
		if _, err := logger.ParseLevel(flags.logLevel); err != nil {
			return nil, err
		}
		cfg.Log.Level = flags.logLevel
	}

	a := &app{
		deps:     deps,
		cfg:      cfg,
		wd:       wd,
		store:    store.New(),
		notifier: ui.NewConsoleNotifier(deps.Stderr),
		plain:    flags.plain || !isTerminal(deps.Stdout),
	}
	a.openLog()

	a.manager = lifecycle.New(lifecycle.Dependencies{
		Config:   cfg,
		FS:       deps.FS,
		Checker:  deps.Checker,
		Killer:   deps.Killer,
		Factory:  deps.Factory,
		Platform: deps.Platform,
		Store:    a.store,
		Notifier: a.notifier,
		Logger:   a.logger,
	})
	a.service = commands.NewService(commands.Dependencies{
		Gate:     a.manager,
		Results:  a.store,
		FS:       deps.FS,
		Factory:  deps.Factory,
		Platform: deps.Platform,
		Logger:   a.logger,
	}, commands.Options{
		GrepTool:       cfg.Search.GrepTool,
		PollInterval:   cfg.Process.PollInterval(),
		GracePeriod:    cfg.Process.GracePeriod(),
		MaxOutputBytes: cfg.Process.MaxOutputBytes,
	})
	a.opener = deps.NewOpener(cfg.UI.Editor)
	return a, nil
}

func newLoader(deps Dependencies, flags *globalFlags) *config.Loader {
	loader := config.NewLoaderWithFS(deps.FS)
	if flags.configPath != "" {
		loader = loader.WithConfigPath(flags.configPath)
	}
	return loader
}

func (a *app) openLog() {
	if a.deps.LogWriter != nil {
		a.logger = logger.New(a.deps.LogWriter, a.cfg.Log.Level)
		return
	}

	path := a.cfg.Log.File
	if path == "" {
		p, err := config.DefaultLogPath(a.deps.FS)
		if err != nil {
			a.logger = logger.Discard()
			return
		}
		path = p
	}

	log, closer, err := logger.Open(path, a.cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(a.deps.Stderr, "Warning: logging disabled: %v\n", err)
		a.logger = logger.Discard()
		return
	}
	a.logger, a.logPath, a.logCloser = log, path, closer
}

// Close tears the search machinery down and flushes the log.
func (a *app) Close() {
	a.manager.Teardown()
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand(defaultDependencies())
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
