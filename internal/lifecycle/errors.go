package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by every operation while the manager is not active.
	ErrDisabled = errors.New("quickfind is disabled")
	// ErrSearchInProgress is returned by Rescan while a cycle is still running.
	ErrSearchInProgress = errors.New("search still in progress")
	// ErrAlreadyLoaded is returned by a second Load without Teardown in between.
	ErrAlreadyLoaded = errors.New("already loaded")
	// ErrNoCycle is returned by WaitCycle when no search cycle was ever started.
	ErrNoCycle = errors.New("no search cycle started")
)

// ToolMissingError is returned when a required external binary is not on PATH.
type ToolMissingError struct {
	Tool string
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("%s is not installed or not found in PATH. quickfind is disabled.", e.Tool)
}
func (e *ToolMissingError) ToolMissing() bool { return true }
