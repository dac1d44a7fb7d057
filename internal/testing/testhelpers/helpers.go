// Package testhelpers provides shared utilities for integration testing
package testhelpers

import (
	"strings"

	"github.com/Cyclone1070/quickfind/internal/testing/mocks"
)

// FakeTools answers finder and grep command lines with canned output, printed
// the way fd and rg print it: one record per line.
type FakeTools struct {
	Folders []string
	Files   []string

	// Grep is the stdout of every grep invocation; GrepExit and GrepStderr
	// make it fail.
	Grep       string
	GrepStderr string
	GrepExit   int

	// FinderErr, when set, is returned as the launch error of the finder.
	FinderErr error
}

// Handler routes a command line to the canned output for it.
func (t FakeTools) Handler(cmd []string) (*mocks.MockProcess, error) {
	switch entryType(cmd) {
	case "d":
		if t.FinderErr != nil {
			return nil, t.FinderErr
		}
		return mocks.NewExitedProcess(lines(t.Folders), "", nil), nil
	case "f":
		if t.FinderErr != nil {
			return nil, t.FinderErr
		}
		return mocks.NewExitedProcess(lines(t.Files), "", nil), nil
	}

	var err error
	if t.GrepExit != 0 {
		err = &mocks.MockExitError{Code: t.GrepExit}
	}
	return mocks.NewExitedProcess(t.Grep, t.GrepStderr, err), nil
}

// Factory returns a process factory serving t.
func (t FakeTools) Factory() *mocks.MockFactory {
	return &mocks.MockFactory{Handler: t.Handler}
}

// GrepCommands returns the command lines of f that were not finder runs.
func GrepCommands(f *mocks.MockFactory) [][]string {
	var out [][]string
	for _, c := range f.Commands() {
		if entryType(c) == "" {
			out = append(out, c)
		}
	}
	return out
}

// entryType returns the value of the finder's -t flag, or "" for any other command.
func entryType(cmd []string) string {
	for i := 1; i < len(cmd)-1; i++ {
		if cmd[i] == "-t" {
			return cmd[i+1]
		}
	}
	return ""
}

func lines(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}
