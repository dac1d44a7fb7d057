package main

import (
	"context"
	"fmt"

	"github.com/Cyclone1070/quickfind/internal/search"
	"github.com/Cyclone1070/quickfind/internal/ui"
)

const statusWidth = 100

// printStatus reports the manager state, optionally after the current cycle
// has finished.
func printStatus(ctx context.Context, a *app, wait bool) error {
	var report search.Report
	if wait && a.manager.Enabled() {
		r, err := a.manager.WaitCycle(ctx)
		if err != nil {
			return err
		}
		report = r
	}

	md := ui.StatusMarkdown(buildStatus(a, report))
	if a.plain {
		fmt.Fprint(a.deps.Stdout, md)
		return nil
	}

	out, err := ui.NewGlamourRenderer("auto", statusWidth).Render(md)
	if err != nil {
		a.logger.Warn("markdown rendering failed", "err", err)
		out = md
	}
	fmt.Fprint(a.deps.Stdout, out)
	return nil
}

func buildStatus(a *app, report search.Report) ui.Status {
	cfg := a.manager.Config()
	folders, files := a.store.Counts()

	s := ui.Status{
		State:     a.manager.State().String(),
		Finder:    cfg.Search.FinderTool,
		Grep:      cfg.Search.GrepTool,
		Roots:     a.manager.Roots(),
		Ready:     a.store.IsReady(),
		Folders:   folders,
		Files:     files,
		Total:     report.Total,
		Cancelled: report.Cancelled,
		LogFile:   a.logPath,
	}
	if report.Cycle != "" {
		for _, t := range []search.Timing{report.Folder, report.File} {
			s.Timings = append(s.Timings, ui.SearchTiming{
				Kind:    t.Kind.String(),
				Count:   t.Count,
				Elapsed: t.Elapsed,
				Err:     t.Err,
			})
		}
	}
	return s
}
