package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Cyclone1070/quickfind/internal/commands"
	"github.com/Cyclone1070/quickfind/internal/config"
	"github.com/Cyclone1070/quickfind/internal/lifecycle"
	"github.com/Cyclone1070/quickfind/internal/project"
	"github.com/Cyclone1070/quickfind/internal/ui"
	"github.com/Cyclone1070/quickfind/internal/watch"
)

const settingsDebounce = 300 * time.Millisecond

const (
	menuFolder = iota
	menuFile
	menuFileLines
	menuProjectLines
	menuRescan
	menuStatus
	menuQuit
)

var sessionMenu = []string{
	menuFolder:       "Find folder",
	menuFile:         "Find file",
	menuFileLines:    "Search lines in a file",
	menuProjectLines: "Search lines in project",
	menuRescan:       "Rescan search paths",
	menuStatus:       "Status",
	menuQuit:         "Quit",
}

// runSession loads the search once and serves the menu until the user quits.
// Settings changes trigger a rescan with the new paths while it runs.
func runSession(ctx context.Context, a *app, flags *globalFlags) error {
	if err := a.manager.Load(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if w, err := newSettingsWatcher(ctx, a, flags); err != nil {
		a.logger.Warn("settings will not be reloaded", "err", err)
	} else {
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn("settings watcher stopped", "err", err)
			}
		}()
	}

	for {
		res, err := ui.Pick(ctx, ui.NewQuickPanel(ui.PanelOptions{
			Placeholder: "quickfind",
			Items:       sessionMenu,
		}))
		if err != nil {
			return err
		}
		if !res.Chosen || res.Index == menuQuit {
			return nil
		}

		if err := runMenuEntry(ctx, a, res.Index); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			a.notifier.Error(userMessage(err))
		}
	}
}

func runMenuEntry(ctx context.Context, a *app, entry int) error {
	switch entry {
	case menuFolder:
		return pickFolder(ctx, a, false)
	case menuFile:
		return pickFile(ctx, a, false)
	case menuFileLines:
		file, ok, err := chooseFile(ctx, a)
		if err != nil || !ok {
			return err
		}
		return pickLine(ctx, a, file)
	case menuProjectLines:
		return pickMatch(ctx, a, project.Folders(nil, a.wd))
	case menuRescan:
		return a.manager.Rescan(ctx)
	case menuStatus:
		if err := printStatus(ctx, a, false); err != nil {
			return err
		}
		fmt.Fprint(a.deps.Stderr, "\nPress enter to return to the menu")
		_, err := bufio.NewReader(a.deps.Stdin).ReadString('\n')
		return err
	}
	return nil
}

func userMessage(err error) string {
	if errors.Is(err, lifecycle.ErrDisabled) {
		return commands.UserMessage(commands.ErrDisabled)
	}
	return commands.UserMessage(err)
}

// newSettingsWatcher watches the global and project config files.
func newSettingsWatcher(ctx context.Context, a *app, flags *globalFlags) (*watch.Watcher, error) {
	loader := newLoader(a.deps, flags)
	paths := []string{filepath.Join(a.wd, config.ProjectFile)}
	if p, err := loader.ConfigPath(); err == nil {
		paths = append(paths, p)
	}
	return watch.New(paths, settingsDebounce, func() {
		reloadSettings(ctx, a, loader)
	}, a.logger)
}

// reloadSettings applies changed search paths. A running cycle is allowed to
// finish before the rescan starts.
func reloadSettings(ctx context.Context, a *app, loader *config.Loader) {
	cfg, err := loader.Load(a.wd)
	if err != nil {
		a.notifier.Error(fmt.Sprintf("failed to reload settings: %v", err))
		return
	}
	a.manager.SetPaths(cfg.Search.Paths)

	err = a.manager.Rescan(ctx)
	if errors.Is(err, lifecycle.ErrSearchInProgress) {
		if _, err = a.manager.WaitCycle(ctx); err == nil {
			err = a.manager.Rescan(ctx)
		}
	}
	if err != nil && ctx.Err() == nil {
		a.logger.Warn("rescan after settings change failed", "err", err)
		return
	}
	a.logger.Info("settings reloaded", "paths", cfg.Search.Paths)
}
