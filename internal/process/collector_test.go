package process

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Truncation(t *testing.T) {
	tests := []struct {
		name          string
		writes        []string
		maxBytes      int64
		want          string
		wantTruncated bool
	}{
		{"Fits", []string{"hello\n", "world\n"}, 64, "hello\nworld\n", false},
		{"Exact Limit", []string{"abcd"}, 4, "abcd", false},
		{"Split Write", []string{"abc", "defgh"}, 5, "abcde", true},
		{"Already Full", []string{"abcde", "x"}, 5, "abcde", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollector(tt.maxBytes)
			for _, w := range tt.writes {
				n, err := c.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n, "writes always report full length")
			}
			assert.Equal(t, tt.want, c.String())
			assert.Equal(t, tt.wantTruncated, c.Truncated())
		})
	}
}

func TestDecodeLines(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		truncated bool
		want      []string
	}{
		{"Empty Output", "", false, nil},
		{"Single Newline", "\n", false, nil},
		{"Trailing Newline Dropped", "/a\n/b\n", false, []string{"/a", "/b"}},
		{"No Trailing Newline", "/a\n/b", false, []string{"/a", "/b"}},
		{"CRLF", "C:\\a\r\nC:\\b\r\n", false, []string{"C:\\a", "C:\\b"}},
		{"Inner Blank Line Kept", "a\n\nb\n", false, []string{"a", "", "b"}},
		{"Invalid UTF-8 Replaced", "caf\xe9\n", false, []string{"caf\uFFFD"}},
		{"Truncated Partial Line Dropped", "/a\n/b\n/par", true, []string{"/a", "/b"}},
		{"Truncated Without Newline", "/partial", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeLines([]byte(tt.input), tt.truncated))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "cancelled", StateCancelled.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.False(t, StateRunning.Terminal())
	assert.True(t, StateFailed.Terminal())
}

func TestCancellationSignal_Idempotent(t *testing.T) {
	s := NewCancellationSignal()
	assert.False(t, s.IsSet())

	s.Set()
	s.Set()

	assert.True(t, s.IsSet())
	select {
	case <-s.Done():
	default:
		t.Fatal("Done channel should be closed")
	}
}

func TestProcessError_Message(t *testing.T) {
	err := &ProcessError{Cmd: []string{"fd", ".", "-t", "d"}, ExitCode: 2, Stderr: "  permission denied\n"}
	assert.Equal(t, "command fd . -t d exited with status 2: permission denied", err.Error())
	assert.True(t, strings.HasPrefix((&ProcessError{Cmd: []string{"rg"}, ExitCode: 1}).Error(), "command rg exited"))
}
