package ui

import (
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoEditor is returned when no editor command is configured.
var ErrNoEditor = errors.New("no editor configured")

// Opener opens files and folders in the user's editor.
type Opener struct {
	editor string
	run    func(cmd *exec.Cmd) error
}

// NewOpener uses editor, falling back to $VISUAL, $EDITOR and finally vi.
func NewOpener(editor string) *Opener {
	return NewOpenerWithRunner(ResolveEditor(editor, os.Getenv), runAttached)
}

// NewOpenerWithRunner creates an Opener with a custom command runner (for testing).
func NewOpenerWithRunner(editor string, run func(cmd *exec.Cmd) error) *Opener {
	return &Opener{editor: editor, run: run}
}

// ResolveEditor picks the editor command.
func ResolveEditor(configured string, getenv func(string) string) string {
	for _, candidate := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// EditorCommand builds "<editor> [+line] path". The editor may carry its own
// arguments ("code -w").
func EditorCommand(editor, path string, line int) ([]string, error) {
	argv := strings.Fields(editor)
	if len(argv) == 0 {
		return nil, ErrNoEditor
	}
	if line > 0 {
		argv = append(argv, "+"+strconv.Itoa(line))
	}
	return append(argv, path), nil
}

// OpenFile opens path, positioned at line when line > 0.
func (o *Opener) OpenFile(path string, line int) error {
	argv, err := EditorCommand(o.editor, path, line)
	if err != nil {
		return err
	}
	return o.run(exec.Command(argv[0], argv[1:]...))
}

// OpenFolder opens a directory in the editor.
func (o *Opener) OpenFolder(path string) error {
	return o.OpenFile(path, 0)
}

func runAttached(cmd *exec.Cmd) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
