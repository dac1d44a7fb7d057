// Package project decides which folders a project-wide content search covers.
package project

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// ErrNoWorktree is returned for a repository without a working tree (bare).
var ErrNoWorktree = errors.New("repository has no worktree")

// OpenError is returned when dir is not inside a git repository.
type OpenError struct {
	Dir   string
	Cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("no git repository at or above %s: %v", e.Dir, e.Cause)
}
func (e *OpenError) Unwrap() error { return e.Cause }

// WorktreeRoot returns the top directory of the git worktree containing dir.
func WorktreeRoot(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", &OpenError{Dir: dir, Cause: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return "", ErrNoWorktree
		}
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// Folders returns the folders to search: the explicit dirs made absolute, or
// else the git worktree root around wd, or else wd itself.
func Folders(dirs []string, wd string) []string {
	if len(dirs) > 0 {
		out := make([]string, 0, len(dirs))
		for _, d := range dirs {
			if !filepath.IsAbs(d) {
				d = filepath.Join(wd, d)
			}
			out = append(out, filepath.Clean(d))
		}
		return out
	}

	if root, err := WorktreeRoot(wd); err == nil {
		return []string{root}
	}
	return []string{wd}
}
