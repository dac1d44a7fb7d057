package ui

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// ConsoleNotifier prints user-facing errors, in red when the terminal allows.
type ConsoleNotifier struct {
	mu    sync.Mutex
	w     io.Writer
	color *color.Color
}

// NewConsoleNotifier writes to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w, color: color.New(color.FgRed, color.Bold)}
}

func (n *ConsoleNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = n.color.Fprintf(n.w, "quickfind: %s\n", msg)
}
