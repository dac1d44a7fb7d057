package platform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedGrepLine is returned when a grep record does not look like path:line:text.
var ErrMalformedGrepLine = errors.New("malformed grep output line")

// GrepMatch is one parsed grep record.
type GrepMatch struct {
	Path string
	Line int
	Text string
}

// ParseGrepLine splits a path:line:text record. On Windows a drive letter
// ("C:") belongs to the path rather than being a field separator.
func (p Platform) ParseGrepLine(record string) (GrepMatch, error) {
	start := 0
	if p.IsWindows() && len(record) > 2 && record[1] == ':' && isDriveLetter(record[0]) {
		start = 2
	}

	pathEnd := strings.IndexByte(record[start:], ':')
	if pathEnd < 0 {
		return GrepMatch{}, fmt.Errorf("%w: %q", ErrMalformedGrepLine, record)
	}
	pathEnd += start

	rest := record[pathEnd+1:]
	lineEnd := strings.IndexByte(rest, ':')
	if lineEnd < 0 {
		return GrepMatch{}, fmt.Errorf("%w: %q", ErrMalformedGrepLine, record)
	}

	line, err := strconv.Atoi(rest[:lineEnd])
	if err != nil || line < 1 {
		return GrepMatch{}, fmt.Errorf("%w: %q", ErrMalformedGrepLine, record)
	}

	return GrepMatch{
		Path: record[:pathEnd],
		Line: line,
		Text: rest[lineEnd+1:],
	}, nil
}

// ParseNumberedLine splits the line:text record rg prints for a single file.
func ParseNumberedLine(record string) (int, string, error) {
	idx := strings.IndexByte(record, ':')
	if idx < 0 {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedGrepLine, record)
	}
	line, err := strconv.Atoi(record[:idx])
	if err != nil || line < 1 {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedGrepLine, record)
	}
	return line, record[idx+1:], nil
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
