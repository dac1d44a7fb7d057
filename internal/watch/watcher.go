// Package watch triggers a callback when any of a set of settings files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/Cyclone1070/quickfind/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// ErrNothingToWatch is returned when none of the files' directories exist.
var ErrNothingToWatch = errors.New("no watchable settings directory")

// Watcher watches settings files. Their parent directories are watched rather
// than the files, since editors often save by replacing the file.
type Watcher struct {
	files    map[string]bool
	debounce time.Duration
	onChange func()
	logger   *slog.Logger
	fsw      *fsnotify.Watcher
}

// New watches paths and calls onChange once writes have settled for debounce.
func New(paths []string, debounce time.Duration, onChange func(), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Discard()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		onChange: onChange,
		logger:   log,
		fsw:      fsw,
	}

	dirs := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		w.files[clean] = true
		dir := filepath.Dir(clean)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			log.Debug("cannot watch settings directory", "dir", dir, "err", err)
			continue
		}
		dirs[dir] = true
	}

	if len(dirs) == 0 {
		_ = fsw.Close()
		return nil, ErrNothingToWatch
	}
	return w, nil
}

// Run delivers change notifications until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.logger.Debug("settings file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)

		case <-fire:
			fire = nil
			w.onChange()
		}
	}
}
