// Package commands implements the operations behind each user-facing command:
// listing folders and files from the published results, mapping a selection
// back to its path, and running content searches.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Cyclone1070/quickfind/internal/logger"
	"github.com/Cyclone1070/quickfind/internal/pathutil"
	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/process"
	"github.com/Cyclone1070/quickfind/internal/store"
)

// anyLine makes the grep tool print every line.
const anyLine = ".*"

// Gate reports whether commands may run and over which roots.
type Gate interface {
	Enabled() bool
	Roots() []string
	Home() string
}

// Results is the read side of the result store.
type Results interface {
	IsReady() bool
	Snapshot() store.ResultSet
}

// Statter checks selections against the filesystem.
type Statter interface {
	Stat(path string) (os.FileInfo, error)
}

// Options tune content searches.
type Options struct {
	GrepTool       string
	PollInterval   time.Duration
	GracePeriod    time.Duration
	MaxOutputBytes int64
}

// Dependencies are the collaborators of a Service.
type Dependencies struct {
	Gate     Gate
	Results  Results
	FS       Statter
	Factory  process.Factory
	Platform platform.Platform
	Logger   *slog.Logger
}

// Match is one content search hit.
type Match struct {
	Path string
	Line int
	Text string
}

// Service serves the commands. Each listing is remembered so a later
// selection index maps to the entry the user actually saw.
type Service struct {
	deps   Dependencies
	opts   Options
	logger *slog.Logger

	mu      sync.Mutex
	folders []string
	files   []string
	lines   []Match
	matches []Match
}

// NewService creates a Service.
func NewService(deps Dependencies, opts Options) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Service{deps: deps, opts: opts, logger: log}
}

// IsSearchReady reports whether the current cycle has published.
func (s *Service) IsSearchReady() bool {
	return s.deps.Results.IsReady()
}

func (s *Service) gate() (store.ResultSet, error) {
	if !s.deps.Gate.Enabled() {
		return store.ResultSet{}, ErrDisabled
	}
	if !s.deps.Results.IsReady() {
		return store.ResultSet{}, ErrSearchNotReady
	}
	if len(s.deps.Gate.Roots()) == 0 {
		return store.ResultSet{}, ErrNoPaths
	}
	snap := s.deps.Results.Snapshot()
	if !snap.Ready {
		return store.ResultSet{}, ErrSearchNotReady
	}
	return snap, nil
}

// ListFolders returns the display strings of every folder found.
func (s *Service) ListFolders() ([]string, error) {
	snap, err := s.gate()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.folders = snap.Folders
	s.mu.Unlock()
	return append([]string(nil), snap.Folders...), nil
}

// ListFiles returns the display strings of every file found.
func (s *Service) ListFiles() ([]string, error) {
	snap, err := s.gate()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.files = snap.Files
	s.mu.Unlock()
	return append([]string(nil), snap.Files...), nil
}

// FolderAt maps an index of the last folder listing to its absolute path,
// checking it is still a directory.
func (s *Service) FolderAt(i int) (string, error) {
	s.mu.Lock()
	entry, err := at(s.folders, i)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	path := pathutil.ExpandHome(entry, s.deps.Gate.Home())
	info, err := s.deps.FS.Stat(path)
	if err != nil || !info.IsDir() {
		return "", ErrNotDirectory
	}
	return path, nil
}

// FileAt maps an index of the last file listing to its absolute path,
// checking it is still a regular file.
func (s *Service) FileAt(i int) (string, error) {
	s.mu.Lock()
	entry, err := at(s.files, i)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	path := pathutil.ExpandHome(entry, s.deps.Gate.Home())
	info, err := s.deps.FS.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNotFile
	}
	return path, nil
}

func at[T any](list []T, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(list) {
		return zero, &IndexError{Index: i, Len: len(list)}
	}
	return list[i], nil
}

// GrepFile lists every line of file as "<line>:<text>". It runs the grep tool
// synchronously and honours ctx cancellation.
func (s *Service) GrepFile(ctx context.Context, file string) ([]string, error) {
	if !s.deps.Gate.Enabled() {
		return nil, ErrDisabled
	}
	if file == "" {
		return nil, ErrNoResults
	}

	cmd := s.deps.Platform.GrepFileCommand(s.opts.GrepTool, anyLine, file)
	records, err := s.grep(ctx, cmd)
	if err != nil {
		return nil, err
	}

	lines := make([]Match, 0, len(records))
	display := make([]string, 0, len(records))
	for _, r := range records {
		n, text, err := platform.ParseNumberedLine(r)
		if err != nil {
			s.logger.Debug("skipping grep record", "err", err)
			continue
		}
		lines = append(lines, Match{Path: file, Line: n, Text: text})
		display = append(display, r)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return display, nil
}

// LineAt maps an index of the last GrepFile listing to its file and line.
func (s *Service) LineAt(i int) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return at(s.lines, i)
}

// GrepAll searches every line under folders and returns display strings of
// the form "<shortened path>:<line>: <trimmed text>".
func (s *Service) GrepAll(ctx context.Context, folders []string) ([]string, error) {
	if !s.deps.Gate.Enabled() {
		return nil, ErrDisabled
	}
	if len(folders) == 0 {
		return nil, ErrNoResults
	}

	cmd := s.deps.Platform.GrepAllCommand(s.opts.GrepTool, anyLine, folders)
	records, err := s.grep(ctx, cmd)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(records))
	for _, r := range records {
		m, err := s.deps.Platform.ParseGrepLine(r)
		if err != nil {
			s.logger.Debug("skipping grep record", "err", err)
			continue
		}
		matches = append(matches, Match{Path: m.Path, Line: m.Line, Text: m.Text})
	}

	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	short := pathutil.ShortenPaths(paths)

	display := make([]string, len(matches))
	for i, m := range matches {
		display[i] = fmt.Sprintf("%s:%d: %s", short[i], m.Line, strings.TrimSpace(m.Text))
	}

	s.mu.Lock()
	s.matches = matches
	s.mu.Unlock()
	return display, nil
}

// MatchAt maps an index of the last GrepAll listing to its match.
func (s *Service) MatchAt(i int) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return at(s.matches, i)
}

// grep runs a grep command to completion. Exit status 1 without stderr means
// nothing matched and yields an empty result.
func (s *Service) grep(ctx context.Context, cmd []string) ([]string, error) {
	start := time.Now()
	records, err := process.Exec(ctx, s.deps.Factory, cmd, process.RunnerOptions{
		MaxOutputBytes: s.opts.MaxOutputBytes,
		Logger:         s.logger,
	}, s.opts.PollInterval, s.opts.GracePeriod)

	var procErr *process.ProcessError
	if errors.As(err, &procErr) && procErr.ExitCode == 1 && strings.TrimSpace(procErr.Stderr) == "" {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug("grep finished", "cmd", strings.Join(cmd, " "), "records", len(records), "elapsed", time.Since(start))
	return records, nil
}
