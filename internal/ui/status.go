package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for the terminal.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// GlamourRenderer renders with glamour. Style "auto" picks a style from the
// terminal background; "notty" renders plain text.
type GlamourRenderer struct {
	style string
	width int
}

func NewGlamourRenderer(style string, width int) *GlamourRenderer {
	return &GlamourRenderer{style: style, width: width}
}

func (g *GlamourRenderer) Render(markdown string) (string, error) {
	styleOpt := glamour.WithStandardStyle(g.style)
	if g.style == "" || g.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(g.width))
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// SearchTiming is one row of the timing table.
type SearchTiming struct {
	Kind    string
	Count   int
	Elapsed time.Duration
	Err     error
}

// Status is the data shown by the status report.
type Status struct {
	State     string
	Finder    string
	Grep      string
	Roots     []string
	Ready     bool
	Folders   int
	Files     int
	Timings   []SearchTiming
	Total     time.Duration
	Cancelled bool
	LogFile   string
}

// StatusMarkdown formats s as a markdown report.
func StatusMarkdown(s Status) string {
	var b strings.Builder

	b.WriteString("# quickfind status\n\n")
	fmt.Fprintf(&b, "- **State:** %s\n", s.State)
	fmt.Fprintf(&b, "- **Tools:** `%s`, `%s`\n", s.Finder, s.Grep)
	if s.Ready {
		fmt.Fprintf(&b, "- **Results:** %d folders, %d files\n", s.Folders, s.Files)
	} else if s.Cancelled {
		b.WriteString("- **Results:** search cancelled\n")
	} else {
		b.WriteString("- **Results:** not ready\n")
	}
	if s.LogFile != "" {
		fmt.Fprintf(&b, "- **Log:** `%s`\n", s.LogFile)
	}

	b.WriteString("\n## Search roots\n\n")
	if len(s.Roots) == 0 {
		b.WriteString("_No paths in settings_\n")
	}
	for _, r := range s.Roots {
		fmt.Fprintf(&b, "- `%s`\n", r)
	}

	if len(s.Timings) > 0 {
		b.WriteString("\n## Last search\n\n")
		b.WriteString("| search | entries | time | error |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, t := range s.Timings {
			errText := ""
			if t.Err != nil {
				errText = strings.ReplaceAll(t.Err.Error(), "|", "\\|")
			}
			fmt.Fprintf(&b, "| %s | %d | %.2fs | %s |\n", t.Kind, t.Count, t.Elapsed.Seconds(), errText)
		}
		fmt.Fprintf(&b, "\nTotal search time: %.2fs\n", s.Total.Seconds())
	}
	return b.String()
}
