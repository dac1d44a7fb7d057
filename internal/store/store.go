// Package store holds the last published search results shared between the
// search coordinator (single writer) and the commands that read them.
package store

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrAlreadyPublished is returned on a second publish within one cycle.
	ErrAlreadyPublished = errors.New("results already published for this cycle")
)

// StaleCycleError is returned when a publish targets a cycle that is no longer current.
type StaleCycleError struct {
	Current string
	Got     string
}

func (e *StaleCycleError) Error() string {
	return fmt.Sprintf("publish for cycle %s rejected: current cycle is %s", e.Got, e.Current)
}

// ResultSet is one complete search outcome.
type ResultSet struct {
	Cycle   string
	Folders []string
	Files   []string
	Ready   bool
}

// Store guards a ResultSet. Readers always observe a whole set, either the
// previous one or the newly published one.
type Store struct {
	mu        sync.RWMutex
	current   ResultSet
	published bool
}

// New creates an empty, not-ready store.
func New() *Store {
	return &Store{}
}

// Reset starts a new cycle. Ready is cleared; the previous lists stay readable
// as stale data until the next publish.
func (s *Store) Reset(cycle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Cycle = cycle
	s.current.Ready = false
	s.published = false
}

// Publish replaces both lists and marks the store ready, in one step.
func (s *Store) Publish(cycle string, folders, files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cycle != s.current.Cycle {
		return &StaleCycleError{Current: s.current.Cycle, Got: cycle}
	}
	if s.published {
		return ErrAlreadyPublished
	}

	s.current = ResultSet{
		Cycle:   cycle,
		Folders: append([]string{}, folders...),
		Files:   append([]string{}, files...),
		Ready:   true,
	}
	s.published = true
	return nil
}

// IsReady reports whether the current cycle has published.
func (s *Store) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Ready
}

// Snapshot returns a copy of the current set. Callers must check Ready before
// presenting the lists as complete.
func (s *Store) Snapshot() ResultSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ResultSet{
		Cycle:   s.current.Cycle,
		Folders: append([]string(nil), s.current.Folders...),
		Files:   append([]string(nil), s.current.Files...),
		Ready:   s.current.Ready,
	}
}

// Counts returns the number of folders and files without copying.
func (s *Store) Counts() (folders, files int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.current.Folders), len(s.current.Files)
}
