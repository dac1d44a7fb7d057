package config

import (
	"os"

	"github.com/Cyclone1070/quickfind/internal/pathutil"
)

// DirStatter is the filesystem view needed to resolve search roots.
type DirStatter interface {
	Stat(path string) (os.FileInfo, error)
}

// ResolveRoots expands "~" in each configured path and keeps, in order, only
// those that exist as directories right now.
func ResolveRoots(paths []string, home string, fs DirStatter) []string {
	roots := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		expanded := pathutil.ExpandHome(p, home)
		info, err := fs.Stat(expanded)
		if err != nil || !info.IsDir() {
			continue
		}
		roots = append(roots, expanded)
	}
	return roots
}
