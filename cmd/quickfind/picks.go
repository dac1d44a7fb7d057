package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Cyclone1070/quickfind/internal/commands"
	"github.com/Cyclone1070/quickfind/internal/ui"
)

// pickFolder lists the folders of the current cycle. In plain mode it waits
// for the cycle and prints them; otherwise the panel waits and opens the
// chosen folder.
func pickFolder(ctx context.Context, a *app, printOnly bool) error {
	if a.plain {
		if _, err := a.manager.WaitCycle(ctx); err != nil {
			return err
		}
		folders, err := a.service.ListFolders()
		if err != nil {
			return err
		}
		printLines(a.deps.Stdout, folders)
		return nil
	}

	res, err := ui.Pick(ctx, ui.NewQuickPanel(ui.PanelOptions{
		Ready: a.service.IsSearchReady,
		Load: func() ([]string, string, error) {
			folders, err := a.service.ListFolders()
			return folders, commands.FolderPlaceholder(len(folders)), err
		},
		PollInterval: a.cfg.Process.PollInterval(),
	}))
	if err != nil || !res.Chosen {
		return err
	}

	path, err := a.service.FolderAt(res.Index)
	if err != nil {
		return err
	}
	if printOnly {
		fmt.Fprintln(a.deps.Stdout, path)
		return nil
	}
	return a.opener.OpenFolder(path)
}

func pickFile(ctx context.Context, a *app, printOnly bool) error {
	if a.plain {
		if _, err := a.manager.WaitCycle(ctx); err != nil {
			return err
		}
		files, err := a.service.ListFiles()
		if err != nil {
			return err
		}
		printLines(a.deps.Stdout, files)
		return nil
	}

	path, ok, err := chooseFile(ctx, a)
	if err != nil || !ok {
		return err
	}
	if printOnly {
		fmt.Fprintln(a.deps.Stdout, path)
		return nil
	}
	return a.opener.OpenFile(path, 0)
}

// chooseFile shows the file panel and returns the chosen file, if any.
func chooseFile(ctx context.Context, a *app) (string, bool, error) {
	res, err := ui.Pick(ctx, ui.NewQuickPanel(ui.PanelOptions{
		Ready: a.service.IsSearchReady,
		Load: func() ([]string, string, error) {
			files, err := a.service.ListFiles()
			return files, commands.FilePlaceholder(len(files)), err
		},
		PollInterval: a.cfg.Process.PollInterval(),
	}))
	if err != nil || !res.Chosen {
		return "", false, err
	}
	path, err := a.service.FileAt(res.Index)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// pickLine searches every line of file and opens the chosen one.
func pickLine(ctx context.Context, a *app, file string) error {
	lines, err := a.service.GrepFile(ctx, file)
	if err != nil {
		return err
	}
	if a.plain {
		printLines(a.deps.Stdout, lines)
		return nil
	}

	res, err := ui.Pick(ctx, ui.NewQuickPanel(ui.PanelOptions{
		Placeholder: commands.LinePlaceholder(len(lines)),
		Items:       lines,
	}))
	if err != nil || !res.Chosen {
		return err
	}
	m, err := a.service.LineAt(res.Index)
	if err != nil {
		return err
	}
	return a.opener.OpenFile(m.Path, m.Line)
}

// pickMatch searches every line under folders and opens the chosen match.
func pickMatch(ctx context.Context, a *app, folders []string) error {
	matches, err := a.service.GrepAll(ctx, folders)
	if err != nil {
		return err
	}
	if a.plain {
		printLines(a.deps.Stdout, matches)
		return nil
	}

	res, err := ui.Pick(ctx, ui.NewQuickPanel(ui.PanelOptions{
		Placeholder: commands.ProjectPlaceholder(len(matches)),
		Items:       matches,
	}))
	if err != nil || !res.Chosen {
		return err
	}
	m, err := a.service.MatchAt(res.Index)
	if err != nil {
		return err
	}
	return a.opener.OpenFile(m.Path, m.Line)
}

func absPath(wd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(wd, p)
}
