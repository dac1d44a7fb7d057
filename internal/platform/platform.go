// Package platform builds every OS-dependent command line used by quickfind,
// so the rest of the code never branches on the operating system.
package platform

import (
	"runtime"
	"strings"
)

// Platform describes the operating system commands are built for.
type Platform struct {
	OS string
}

// Current returns the platform quickfind is running on.
func Current() Platform {
	return Platform{OS: runtime.GOOS}
}

// IsWindows reports whether commands target Windows.
func (p Platform) IsWindows() bool {
	return p.OS == "windows"
}

// FindCommand builds the finder invocation listing entries of one type
// ("d" for directories, "f" for files) under every root:
// fd [-H] . -t <type> <root>...
func (p Platform) FindCommand(tool, entryType string, roots []string, hidden bool) []string {
	cmd := []string{tool}
	if hidden {
		cmd = append(cmd, "-H")
	}
	cmd = append(cmd, ".", "-t", entryType)
	return append(cmd, roots...)
}

// GrepFileCommand builds a numbered content search of a single file:
// rg -n <pattern> <file>
func (p Platform) GrepFileCommand(tool, pattern, file string) []string {
	return []string{tool, "-n", pattern, file}
}

// GrepAllCommand builds a numbered content search across several roots. Output
// is always path:line:text, one record per line.
func (p Platform) GrepAllCommand(tool, pattern string, roots []string) []string {
	cmd := []string{tool, "-n", "--no-heading", pattern}
	return append(cmd, roots...)
}

// KillCommand builds the forceful kill-by-name sweep for a tool.
func (p Platform) KillCommand(tool string) []string {
	if p.IsWindows() {
		return []string{"taskkill", "/F", "/IM", p.Executable(tool)}
	}
	// -x: exact process name, never the full command line.
	return []string{"pkill", "-9", "-x", tool}
}

// LookupCommand builds the shell command that locates a tool on PATH.
func (p Platform) LookupCommand(tool string) []string {
	if p.IsWindows() {
		return []string{"where", tool}
	}
	return []string{"which", tool}
}

// Executable returns the on-disk executable name of a tool.
func (p Platform) Executable(tool string) string {
	if p.IsWindows() && !strings.HasSuffix(strings.ToLower(tool), ".exe") {
		return tool + ".exe"
	}
	return tool
}

// NoMatchExitCode reports whether code means "nothing matched" for the kill
// sweep, which is not a failure.
func (p Platform) NoMatchExitCode(code int) bool {
	if p.IsWindows() {
		return code == 128
	}
	return code == 1
}
