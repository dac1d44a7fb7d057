package mocks

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// MockFileInfo implements os.FileInfo
type MockFileInfo struct {
	NameVal  string
	SizeVal  int64
	ModeVal  os.FileMode
	IsDirVal bool
}

func (f *MockFileInfo) Name() string       { return f.NameVal }
func (f *MockFileInfo) Size() int64        { return f.SizeVal }
func (f *MockFileInfo) Mode() os.FileMode  { return f.ModeVal }
func (f *MockFileInfo) ModTime() time.Time { return time.Time{} }
func (f *MockFileInfo) IsDir() bool        { return f.IsDirVal }
func (f *MockFileInfo) Sys() any           { return nil }

// MockFileSystem is an in-memory tree of directories and files. It satisfies
// the stat, home-directory and read-file views used across the packages.
type MockFileSystem struct {
	Mu sync.Mutex

	HomeDir    string
	HomeDirErr error
	// OpErrors forces an error for a named operation ("Stat", "ReadFile").
	OpErrors map[string]error

	dirs  map[string]bool
	files map[string][]byte
}

// NewMockFileSystem creates an empty filesystem rooted at home.
func NewMockFileSystem(home string) *MockFileSystem {
	fs := &MockFileSystem{
		HomeDir:  home,
		OpErrors: map[string]error{},
		dirs:     map[string]bool{},
		files:    map[string][]byte{},
	}
	if home != "" {
		fs.AddDir(home)
	}
	return fs
}

// AddDir registers path and all its parents as directories.
func (m *MockFileSystem) AddDir(path string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		m.dirs[p] = true
		if filepath.Dir(p) == p {
			return
		}
	}
}

// AddFile registers a file and its parent directories.
func (m *MockFileSystem) AddFile(path string, content []byte) {
	m.AddDir(filepath.Dir(path))
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.files[filepath.Clean(path)] = content
}

// Remove deletes a file or directory entry (not its children).
func (m *MockFileSystem) Remove(path string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	delete(m.dirs, filepath.Clean(path))
	delete(m.files, filepath.Clean(path))
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) Stat(path string) (os.FileInfo, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if err, ok := m.OpErrors["Stat"]; ok {
		return nil, err
	}

	clean := filepath.Clean(path)
	if m.dirs[clean] {
		return &MockFileInfo{NameVal: filepath.Base(clean), ModeVal: os.ModeDir | 0o755, IsDirVal: true}, nil
	}
	if content, ok := m.files[clean]; ok {
		return &MockFileInfo{NameVal: filepath.Base(clean), SizeVal: int64(len(content)), ModeVal: 0o644}, nil
	}
	return nil, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if err, ok := m.OpErrors["ReadFile"]; ok {
		return nil, err
	}
	content, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return append([]byte(nil), content...), nil
}
