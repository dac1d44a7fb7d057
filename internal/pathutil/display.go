// Package pathutil converts between absolute search results and the shortened
// forms shown in pick lists.
package pathutil

import (
	"path/filepath"
	"strings"
)

const sep = string(filepath.Separator)

// ExpandHome turns "~" and "~/rest" into paths under home. Anything else is
// returned unchanged. It is the exact inverse of Prettify.
func ExpandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~"+sep) || strings.HasPrefix(path, "~/") {
		return strings.TrimSuffix(home, sep) + path[1:]
	}
	return path
}

// Prettify abbreviates a path under home to "~/rest". Paths outside home, and
// sibling paths that merely share the prefix (/home/userx), are unchanged.
func Prettify(path, home string) string {
	home = strings.TrimSuffix(home, sep)
	if home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+sep) {
		return "~" + path[len(home):]
	}
	return path
}

// ShortenPaths strips the directory prefix shared by every path and marks the
// cut with "...": /a/b/c/x and /a/b/c/y become .../x and .../y. When there is
// no shared directory the input is returned as is.
func ShortenPaths(paths []string) []string {
	common, ok := CommonDir(paths)
	if !ok {
		return paths
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = "..." + p[len(common):]
	}
	return out
}

// CommonDir returns the longest directory that is a parent of every path. The
// bare filesystem root does not count as a common directory, and neither does
// a mix of absolute and relative paths.
func CommonDir(paths []string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}

	absolute := filepath.IsAbs(paths[0])
	var common []string
	for i, p := range paths {
		if filepath.IsAbs(p) != absolute {
			return "", false
		}
		parts := strings.Split(parentDir(p), sep)
		if i == 0 {
			common = parts
			continue
		}
		n := 0
		for n < len(common) && n < len(parts) && common[n] == parts[n] {
			n++
		}
		common = common[:n]
		if len(common) == 0 {
			return "", false
		}
	}

	dir := strings.Join(common, sep)
	if dir == "" || dir == sep || filepath.VolumeName(dir) == dir {
		return "", false
	}
	return dir, true
}

// parentDir is the raw string prefix of p up to its last separator, so that it
// stays a literal prefix of p. A trailing separator (fd marks directories that
// way) is ignored.
func parentDir(p string) string {
	trimmed := strings.TrimRight(p, sep)
	idx := strings.LastIndex(trimmed, sep)
	if idx < 0 {
		return ""
	}
	return trimmed[:idx]
}
