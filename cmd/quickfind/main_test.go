package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Cyclone1070/quickfind/internal/platform"
	"github.com/Cyclone1070/quickfind/internal/testing/mocks"
	"github.com/Cyclone1070/quickfind/internal/testing/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testHome       = "/home/user"
	testConfigPath = "/home/user/.config/quickfind/config.json"
)

type fakeChecker struct {
	missing map[string]bool
}

func (c fakeChecker) Available(tool string) bool { return !c.missing[tool] }

type recordingKiller struct {
	tools []string
}

func (k *recordingKiller) KillByName(ctx context.Context, tool string) error {
	k.tools = append(k.tools, tool)
	return nil
}

type recordingOpener struct {
	files   []string
	folders []string
}

func (o *recordingOpener) OpenFile(path string, line int) error {
	o.files = append(o.files, path)
	return nil
}

func (o *recordingOpener) OpenFolder(path string) error {
	o.folders = append(o.folders, path)
	return nil
}

type fixture struct {
	fs      *mocks.MockFileSystem
	factory *mocks.MockFactory
	checker fakeChecker
	killer  *recordingKiller
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

// newFixture answers fd with folders and files under ~/code and rg with
// grepOutput.
func newFixture(t *testing.T, configJSON, grepOutput string) *fixture {
	t.Helper()

	fs := mocks.NewMockFileSystem(testHome)
	fs.AddDir(testHome + "/code/app")
	fs.AddFile(testHome+"/code/app/main.go", []byte("package main\n"))
	if configJSON != "" {
		fs.AddFile(testConfigPath, []byte(configJSON))
	}

	factory := testhelpers.FakeTools{
		Folders: []string{testHome + "/code/app", testHome + "/code/lib"},
		Files:   []string{testHome + "/code/app/main.go"},
		Grep:    grepOutput,
	}.Factory()

	return &fixture{
		fs:      fs,
		factory: factory,
		checker: fakeChecker{missing: map[string]bool{}},
		killer:  &recordingKiller{},
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
}

func (f *fixture) run(args ...string) error {
	deps := Dependencies{
		FS:        f.fs,
		Factory:   f.factory,
		Checker:   f.checker,
		Killer:    f.killer,
		Platform:  platform.Platform{OS: "linux"},
		NewOpener: func(string) Opener { return &recordingOpener{} },
		Getwd:     func() (string, error) { return "/work", nil },
		Stdin:     strings.NewReader(""),
		Stdout:    f.stdout,
		Stderr:    f.stderr,
		LogWriter: io.Discard,
	}
	cmd := newRootCommand(deps)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

const codeConfig = `{"search": {"paths": ["~/code"]}}`

func TestDirs_PlainPrintsPrettifiedFolders(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	err := f.run("dirs", "--plain")

	require.NoError(t, err)
	assert.Equal(t, "~/code/app\n~/code/lib\n", f.stdout.String())

	cmds := f.factory.Commands()
	require.Len(t, cmds, 2)
	for _, c := range cmds {
		assert.Equal(t, "fd", c[0])
		assert.Equal(t, testHome+"/code", c[len(c)-1])
	}
}

func TestFiles_PlainPrintsFiles(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	err := f.run("files")

	require.NoError(t, err)
	assert.Equal(t, "~/code/app/main.go\n", f.stdout.String())
}

func TestDirs_TeardownSweepsFinder(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	require.NoError(t, f.run("dirs"))

	assert.Equal(t, []string{"fd", "fd"}, f.killer.tools)
}

func TestDirs_NoUsablePaths(t *testing.T) {
	f := newFixture(t, `{"search": {"paths": ["~/missing"]}}`, "")

	err := f.run("dirs")

	require.Error(t, err)
	assert.Equal(t, "No paths in settings", err.Error())
	assert.Empty(t, f.factory.Commands(), "no finder runs without roots")
}

func TestDirs_MissingToolIsReportedOnce(t *testing.T) {
	f := newFixture(t, codeConfig, "")
	f.checker.missing["fd"] = true

	err := f.run("dirs")

	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, 1, strings.Count(f.stderr.String(), "fd is not installed or not found in PATH"))
	assert.Empty(t, f.factory.Commands())
}

func TestGrep_PlainPrintsNumberedLines(t *testing.T) {
	f := newFixture(t, codeConfig, "1:package main\n2:\n3:func main() {}\n")

	err := f.run("grep", "main.go")

	require.NoError(t, err)
	assert.Equal(t, "1:package main\n2:\n3:func main() {}\n", f.stdout.String())

	assert.Equal(t, [][]string{{"rg", "-n", ".*", "/work/main.go"}}, testhelpers.GrepCommands(f.factory))
	assert.Len(t, f.factory.Commands(), 1, "no finder runs for a one-shot content search")
	assert.Empty(t, f.killer.tools, "no kill sweep without a finder run")
}

func TestGrep_ToolFailure(t *testing.T) {
	f := newFixture(t, codeConfig, "")
	f.factory = testhelpers.FakeTools{GrepStderr: "rg: secret.txt: Permission denied\n", GrepExit: 2}.Factory()

	err := f.run("grep", "secret.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Permission denied")
	assert.Empty(t, f.stdout.String())
}

func TestGrepAll_PlainShortensPaths(t *testing.T) {
	f := newFixture(t, codeConfig, "/src/a.go:3:  func A() {}\n/src/b/b.go:1:package b\n")

	err := f.run("grep-all", "/src")

	require.NoError(t, err)
	assert.Equal(t, ".../a.go:3: func A() {}\n.../b/b.go:1: package b\n", f.stdout.String())
	assert.Equal(t, [][]string{{"rg", "-n", "--no-heading", ".*", "/src"}}, f.factory.Commands())
	assert.Empty(t, f.killer.tools)
}

func TestGrepAll_NoMatches(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	err := f.run("grep-all", "/src")

	require.NoError(t, err)
	assert.Empty(t, f.stdout.String())
}

func TestStatus_PlainMarkdown(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	err := f.run("status")

	require.NoError(t, err)
	out := f.stdout.String()
	assert.Contains(t, out, "# quickfind status")
	assert.Contains(t, out, "**State:** active")
	assert.Contains(t, out, "2 folders, 1 files")
	assert.Contains(t, out, "`"+testHome+"/code`")
	assert.Contains(t, out, "| directory | 2 |")
}

func TestStatus_ReportsInactiveWhenToolMissing(t *testing.T) {
	f := newFixture(t, codeConfig, "")
	f.checker.missing["rg"] = true

	err := f.run("status")

	require.NoError(t, err)
	assert.Contains(t, f.stdout.String(), "**State:** inactive")
}

func TestBadConfigFallsBackToDefaults(t *testing.T) {
	f := newFixture(t, `{"search": `, "")

	err := f.run("status", "--no-wait")

	require.NoError(t, err)
	assert.Contains(t, f.stderr.String(), "Using default configuration.")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	err := f.run("dirs", "--log-level", "loud")

	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	f := newFixture(t, "", "")
	f.fs.AddFile("/etc/quickfind.json", []byte(`{"search": {"paths": ["~/code"], "include_hidden": false}}`))

	require.NoError(t, f.run("dirs", "--config", "/etc/quickfind.json"))

	for _, c := range f.factory.Commands() {
		assert.NotContains(t, c, "-H")
	}
}

func TestRoot_PlainPrintsHelp(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	require.NoError(t, f.run())

	assert.Contains(t, f.stdout.String(), "Usage:")
	assert.Empty(t, f.factory.Commands())
}

func TestVersion(t *testing.T) {
	f := newFixture(t, codeConfig, "")

	require.NoError(t, f.run("version"))

	assert.Equal(t, "quickfind "+Version+"\n", f.stdout.String())
}

func TestUserError(t *testing.T) {
	assert.NoError(t, userError(nil))
	assert.NoError(t, userError(context.Canceled))
	assert.EqualError(t, userError(io.ErrUnexpectedEOF), io.ErrUnexpectedEOF.Error())
}

func TestAbsPath(t *testing.T) {
	assert.Equal(t, "/work/a/b.go", absPath("/work", "a/b.go"))
	assert.Equal(t, "/etc/hosts", absPath("/work", "/etc/../etc/hosts"))
}
