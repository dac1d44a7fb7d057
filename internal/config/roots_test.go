package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type osStatter struct{}

func (osStatter) Stat(path string) (os.FileInfo, error) { return os.Stat(path) }

func TestResolveRoots_KeepsOnlyExistingDirectories(t *testing.T) {
	home := t.TempDir()
	code := filepath.Join(home, "code")
	notes := filepath.Join(home, "notes")
	require.NoError(t, os.Mkdir(code, 0o755))
	require.NoError(t, os.Mkdir(notes, 0o755))
	file := filepath.Join(home, "todo.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	roots := ResolveRoots([]string{
		"~/notes",
		"~/missing",
		file,
		"",
		code,
	}, home, osStatter{})

	assert.Equal(t, []string{notes, code}, roots)
}

func TestResolveRoots_SubsetOfExistingDirectories(t *testing.T) {
	home := t.TempDir()
	inputs := []string{"~", "~/a", "~/b", "/definitely/not/here", home}
	require.NoError(t, os.Mkdir(filepath.Join(home, "b"), 0o755))

	roots := ResolveRoots(inputs, home, osStatter{})

	for _, r := range roots {
		info, err := os.Stat(r)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), r)
	}
	assert.Equal(t, []string{home, filepath.Join(home, "b"), home}, roots)
}

func TestResolveRoots_Empty(t *testing.T) {
	assert.Empty(t, ResolveRoots(nil, "/home/user", osStatter{}))
}
