package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/store"
	"github.com/Cyclone1070/quickfind/internal/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	enabled bool
	roots   []string
	home    string
}

func (g fakeGate) Enabled() bool   { return g.enabled }
func (g fakeGate) Roots() []string { return g.roots }
func (g fakeGate) Home() string    { return g.home }

func testOptions() Options {
	return Options{
		GrepTool:       "rg",
		PollInterval:   5 * time.Millisecond,
		GracePeriod:    50 * time.Millisecond,
		MaxOutputBytes: 1 << 20,
	}
}

type fixture struct {
	service *Service
	store   *store.Store
	fs      *mocks.MockFileSystem
	factory *mocks.MockFactory
}

func newFixture(gate fakeGate, os string) *fixture {
	fs := mocks.NewMockFileSystem("/home/user")
	s := store.New()
	factory := &mocks.MockFactory{}
	return &fixture{
		service: NewService(Dependencies{
			Gate:     gate,
			Results:  s,
			FS:       fs,
			Factory:  factory,
			Platform: platform.Platform{OS: os},
		}, testOptions()),
		store:   s,
		fs:      fs,
		factory: factory,
	}
}

func activeGate() fakeGate {
	return fakeGate{enabled: true, roots: []string{"/home/user"}, home: "/home/user"}
}

func (f *fixture) publish(t *testing.T, folders, files []string) {
	t.Helper()
	f.store.Reset("c1")
	require.NoError(t, f.store.Publish("c1", folders, files))
}

func TestListFolders_Gating(t *testing.T) {
	tests := []struct {
		name    string
		gate    fakeGate
		publish bool
		wantErr error
		wantMsg string
	}{
		{"Disabled", fakeGate{}, true, ErrDisabled, "quickfind is disabled: required tools are missing."},
		{"Not Ready", activeGate(), false, ErrSearchNotReady, "Search still in progress. Please wait..."},
		{"No Paths", fakeGate{enabled: true, home: "/home/user"}, true, ErrNoPaths, "No paths in settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.gate, "linux")
			if tt.publish {
				f.publish(t, []string{"~/a"}, []string{"~/a/b"})
			}

			_, err := f.service.ListFolders()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, UserMessage(err))

			_, err = f.service.ListFiles()
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestListAndSelect(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.fs.AddDir("/home/user/code")
	f.fs.AddFile("/srv/readme.md", []byte("hi"))
	f.publish(t, []string{"~/code", "/srv/gone"}, []string{"/srv/readme.md", "~/code"})

	folders, err := f.service.ListFolders()
	require.NoError(t, err)
	assert.Equal(t, []string{"~/code", "/srv/gone"}, folders)
	assert.True(t, f.service.IsSearchReady())

	path, err := f.service.FolderAt(0)
	require.NoError(t, err)
	assert.Equal(t, "/home/user/code", path, "display path expands back to the original")

	_, err = f.service.FolderAt(1)
	assert.ErrorIs(t, err, ErrNotDirectory)
	assert.Equal(t, "Selection is not a directory.", UserMessage(err))

	_, err = f.service.FolderAt(5)
	var idxErr *IndexError
	assert.ErrorAs(t, err, &idxErr)

	_, err = f.service.ListFiles()
	require.NoError(t, err)
	file, err := f.service.FileAt(0)
	require.NoError(t, err)
	assert.Equal(t, "/srv/readme.md", file)
	_, err = f.service.FileAt(1)
	assert.ErrorIs(t, err, ErrNotFile)
}

func TestSelection_UsesListingSeenByUser(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.fs.AddDir("/one")
	f.fs.AddDir("/two")
	f.publish(t, []string{"/one"}, nil)
	_, err := f.service.ListFolders()
	require.NoError(t, err)

	f.store.Reset("c2")
	require.NoError(t, f.store.Publish("c2", []string{"/two"}, nil))

	path, err := f.service.FolderAt(0)
	require.NoError(t, err)
	assert.Equal(t, "/one", path)
}

func TestSelectionBeforeListing(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	_, err := f.service.FileAt(0)
	var idxErr *IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, 0, idxErr.Len)
}

func TestGrepFile(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.factory.Handler = func(cmd []string) (*mocks.MockProcess, error) {
		return mocks.NewExitedProcess("1:package main\n2:\n3:func main() {}\n", "", nil), nil
	}

	lines, err := f.service.GrepFile(context.Background(), "/src/main.go")

	require.NoError(t, err)
	assert.Equal(t, []string{"1:package main", "2:", "3:func main() {}"}, lines)
	assert.Equal(t, [][]string{{"rg", "-n", ".*", "/src/main.go"}}, f.factory.Commands())

	m, err := f.service.LineAt(2)
	require.NoError(t, err)
	assert.Equal(t, Match{Path: "/src/main.go", Line: 3, Text: "func main() {}"}, m)
}

func TestGrepFile_NoFile(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	_, err := f.service.GrepFile(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Equal(t, "No results to display", UserMessage(err))
}

func TestGrepFile_EmptyFileIsNotAnError(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) {
		return mocks.NewExitedProcess("", "", &mocks.MockExitError{Code: 1}), nil
	}

	lines, err := f.service.GrepFile(context.Background(), "/empty.txt")

	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGrepFile_ToolError(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) {
		return mocks.NewExitedProcess("", "rg: /nope: No such file or directory (os error 2)", &mocks.MockExitError{Code: 2}), nil
	}

	_, err := f.service.GrepFile(context.Background(), "/nope")

	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "No such file or directory")
}

func TestGrepFile_Disabled(t *testing.T) {
	f := newFixture(fakeGate{}, "linux")
	_, err := f.service.GrepFile(context.Background(), "/x")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, f.factory.Commands())
}

func TestGrepAll(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) {
		out := "/a/b/c/x.go:3:\tfoo := 1\n" +
			"/a/b/c/y.go:10:  url: http://host:80  \n" +
			"Binary file matches\n" +
			"/a/b/c/z.go:1:z\n"
		return mocks.NewExitedProcess(out, "", nil), nil
	}

	display, err := f.service.GrepAll(context.Background(), []string{"/a/b"})

	require.NoError(t, err)
	assert.Equal(t, []string{
		".../x.go:3: foo := 1",
		".../y.go:10: url: http://host:80",
		".../z.go:1: z",
	}, display)
	assert.Equal(t, [][]string{{"rg", "-n", "--no-heading", ".*", "/a/b"}}, f.factory.Commands())

	m, err := f.service.MatchAt(1)
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c/y.go", m.Path)
	assert.Equal(t, 10, m.Line)
}

func TestGrepAll_WindowsDriveLetters(t *testing.T) {
	f := newFixture(activeGate(), "windows")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) {
		return mocks.NewExitedProcess("C:\\src\\a.go:7:x\r\nD:\\b.go:1:y\r\n", "", nil), nil
	}

	display, err := f.service.GrepAll(context.Background(), []string{"C:\\src", "D:\\"})

	require.NoError(t, err)
	require.Len(t, display, 2)
	m, err := f.service.MatchAt(0)
	require.NoError(t, err)
	assert.Equal(t, "C:\\src\\a.go", m.Path)
	assert.Equal(t, 7, m.Line)
}

func TestGrepAll_NoFolders(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	_, err := f.service.GrepAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestGrepAll_LaunchError(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) { return nil, mocks.ErrNotFound }

	_, err := f.service.GrepAll(context.Background(), []string{"/a"})

	assert.True(t, errors.Is(err, mocks.ErrNotFound))
}

func TestGrepAll_Cancelled(t *testing.T) {
	f := newFixture(activeGate(), "linux")
	p := mocks.NewMockProcess("", "")
	f.factory.Handler = func([]string) (*mocks.MockProcess, error) { return p, nil }
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := f.service.GrepAll(ctx, []string{"/a"})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, p.Exited())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "Search for directory (out of 3)", FolderPlaceholder(3))
	assert.Equal(t, "Search for file (out of 0)", FilePlaceholder(0))
	assert.Equal(t, "Search for line in file (out of 12)", LinePlaceholder(12))
	assert.Equal(t, "Search for line in project (out of 1)", ProjectPlaceholder(1))
}
