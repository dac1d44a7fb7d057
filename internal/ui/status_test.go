package ui

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMarkdown(t *testing.T) {
	md := StatusMarkdown(Status{
		State:   "active",
		Finder:  "fd",
		Grep:    "rg",
		Roots:   []string{"/home/u/code"},
		Ready:   true,
		Folders: 3,
		Files:   10,
		Timings: []SearchTiming{
			{Kind: "directory", Count: 3, Elapsed: 1500 * time.Millisecond},
			{Kind: "file", Count: 10, Elapsed: 2 * time.Second, Err: errors.New("a|b")},
		},
		Total: 2 * time.Second,
	})

	assert.Contains(t, md, "- **State:** active")
	assert.Contains(t, md, "3 folders, 10 files")
	assert.Contains(t, md, "- `/home/u/code`")
	assert.Contains(t, md, "| directory | 3 | 1.50s |  |")
	assert.Contains(t, md, `a\|b`)
	assert.Contains(t, md, "Total search time: 2.00s")
}

func TestStatusMarkdown_NoRoots(t *testing.T) {
	md := StatusMarkdown(Status{State: "inactive"})
	assert.Contains(t, md, "No paths in settings")
	assert.Contains(t, md, "not ready")
	assert.NotContains(t, md, "Last search")
}

func TestGlamourRenderer_Plain(t *testing.T) {
	out, err := NewGlamourRenderer("notty", 80).Render("# quickfind status\n\n- **State:** active\n")
	require.NoError(t, err)
	assert.Contains(t, out, "quickfind status")
	assert.Contains(t, out, "active")
}

func TestConsoleNotifier(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	NewConsoleNotifier(&buf).Error("fd is not installed or not found in PATH.")

	assert.Equal(t, "quickfind: fd is not installed or not found in PATH.\n", buf.String())
}
