package commands

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned while the tools check has not passed.
	ErrDisabled = errors.New("commands are disabled")
	// ErrSearchNotReady is returned while the current search cycle is running.
	ErrSearchNotReady = errors.New("search not ready")
	// ErrNoPaths is returned when no configured path resolved to a directory.
	ErrNoPaths = errors.New("no search paths")
	// ErrNoResults is returned when there is nothing to search in.
	ErrNoResults = errors.New("no results")
	// ErrNotDirectory is returned when a selected folder no longer is one.
	ErrNotDirectory = errors.New("selection is not a directory")
	// ErrNotFile is returned when a selected file no longer is one.
	ErrNotFile = errors.New("selection is not a file")
)

// IndexError is returned when a selection index is outside the last listing.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}
func (e *IndexError) InvalidInput() bool { return true }

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrSearchNotReady):
		return "Search still in progress. Please wait..."
	case errors.Is(err, ErrNoPaths):
		return "No paths in settings"
	case errors.Is(err, ErrNoResults):
		return "No results to display"
	case errors.Is(err, ErrNotDirectory):
		return "Selection is not a directory."
	case errors.Is(err, ErrDisabled):
		return "quickfind is disabled: required tools are missing."
	default:
		return err.Error()
	}
}

// Placeholders shown above each list.
func FolderPlaceholder(n int) string  { return fmt.Sprintf("Search for directory (out of %d)", n) }
func FilePlaceholder(n int) string    { return fmt.Sprintf("Search for file (out of %d)", n) }
func LinePlaceholder(n int) string    { return fmt.Sprintf("Search for line in file (out of %d)", n) }
func ProjectPlaceholder(n int) string { return fmt.Sprintf("Search for line in project (out of %d)", n) }
