package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrettify(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"Under Home", "/home/user/code/app", "~/code/app"},
		{"Home Itself", "/home/user", "~"},
		{"Trailing Slash Dir", "/home/user/code/", "~/code/"},
		{"Outside Home", "/srv/data", "/srv/data"},
		{"Sibling Prefix", "/home/userx/file", "/home/userx/file"},
		{"Relative", "code/app", "code/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prettify(tt.path, "/home/user"))
		})
	}
}

func TestPrettify_HomeWithTrailingSeparator(t *testing.T) {
	assert.Equal(t, "~/x", Prettify("/home/user/x", "/home/user/"))
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/user", ExpandHome("~", "/home/user"))
	assert.Equal(t, "/home/user/code", ExpandHome("~/code", "/home/user"))
	assert.Equal(t, "/srv", ExpandHome("/srv", "/home/user"))
	assert.Equal(t, "~other/x", ExpandHome("~other/x", "/home/user"))
	assert.Equal(t, "~/x", ExpandHome("~/x", ""))
}

func TestPrettify_RoundTrip(t *testing.T) {
	home := "/home/user"
	paths := []string{
		"/home/user",
		"/home/user/a",
		"/home/user/a/b/c.txt",
		"/home/user/dir/",
		"/home/userx/a",
		"/etc/hosts",
	}
	for _, p := range paths {
		assert.Equal(t, p, ExpandHome(Prettify(p, home), home), p)
	}
}

func TestShortenPaths_CommonPrefix(t *testing.T) {
	got := ShortenPaths([]string{"/a/b/c/x", "/a/b/c/y", "/a/b/c/z"})
	assert.Equal(t, []string{".../x", ".../y", ".../z"}, got)
}

func TestShortenPaths_NestedDepths(t *testing.T) {
	got := ShortenPaths([]string{"/a/b/c/x.go", "/a/b/d/y.go"})
	assert.Equal(t, []string{".../c/x.go", ".../d/y.go"}, got)
}

func TestShortenPaths_SingleFileKeepsName(t *testing.T) {
	got := ShortenPaths([]string{"/a/b/main.go", "/a/b/main.go"})
	assert.Equal(t, []string{".../main.go", ".../main.go"}, got)
}

func TestShortenPaths_NoCommonPrefix(t *testing.T) {
	in := []string{"/a/x", "/b/y"}
	assert.Equal(t, in, ShortenPaths(in))
}

func TestShortenPaths_NoOpCases(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
	}{
		{"Empty", []string{}},
		{"Nil", nil},
		{"Top Level Files", []string{"/x", "/y"}},
		{"Relative Bare Names", []string{"x", "y"}},
		{"Mixed Absolute And Relative", []string{"/a/b/x", "a/b/y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.paths, ShortenPaths(tt.paths))
		})
	}
}

func TestShortenPaths_RelativeCommonPrefix(t *testing.T) {
	got := ShortenPaths([]string{"src/a.go", "src/b.go"})
	assert.Equal(t, []string{".../a.go", ".../b.go"}, got)
}

func TestCommonDir(t *testing.T) {
	dir, ok := CommonDir([]string{"/a/b/c/x", "/a/b/y"})
	assert.True(t, ok)
	assert.Equal(t, "/a/b", dir)

	_, ok = CommonDir([]string{"/a/x", "/b/x"})
	assert.False(t, ok)
}
