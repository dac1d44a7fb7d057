package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "quickfind"
	// ConfigFile is the config file name
	ConfigFile = "config.json"
	// ProjectFile is the optional per-project override, looked up in the project directory
	ProjectFile = ".quickfind.toml"
	// LogFile is the default log file name under ConfigDir
	LogFile = "quickfind.log"
)

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// ParseError is returned when a config file exists but cannot be decoded.
type ParseError struct {
	Path  string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config %s: %v", e.Path, e.Cause)
}
func (e *ParseError) Unwrap() error      { return e.Cause }
func (e *ParseError) InvalidInput() bool { return true }

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs         FileSystem
	configPath string
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// WithConfigPath makes the loader read the global config from path instead of
// ~/.config/quickfind/config.json.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// ConfigPath returns the global config file location.
func (l *Loader) ConfigPath() (string, error) {
	if l.configPath != "" {
		return l.configPath, nil
	}
	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", ConfigDir, ConfigFile), nil
}

// Load reads the global JSON config and then projectDir/.quickfind.toml, each
// decoded over the defaults. Returns defaults when neither file exists.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load(projectDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath, err := l.ConfigPath(); err == nil {
		if err := l.overlay(cfg, configPath, json.Unmarshal); err != nil {
			return nil, err
		}
	}

	if projectDir != "" {
		projectPath := filepath.Join(projectDir, ProjectFile)
		if err := l.overlay(cfg, projectPath, toml.Unmarshal); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// overlay decodes the file at path into a generic map and then onto cfg, so
// present keys overwrite defaults (even if zero) while missing keys leave them untouched.
func (l *Loader) overlay(cfg *Config, path string, unmarshal func([]byte, any) error) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	raw := map[string]any{}
	if err := unmarshal(data, &raw); err != nil {
		return &ParseError{Path: path, Cause: err}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     cfg,
		TagName:    "json",
		ZeroFields: true, // lists replace rather than merge
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return &ParseError{Path: path, Cause: err}
	}
	return nil
}

// Load is a convenience function using the default loader
func Load(projectDir string) (*Config, error) {
	return NewLoader().Load(projectDir)
}

// DefaultLogPath returns ~/.config/quickfind/quickfind.log.
func DefaultLogPath(fs FileSystem) (string, error) {
	homeDir, err := fs.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", ConfigDir, LogFile), nil
}
