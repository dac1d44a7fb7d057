package config

import "time"

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Search  SearchConfig  `json:"search"`
	Process ProcessConfig `json:"process"`
	Log     LogConfig     `json:"log"`
	UI      UIConfig      `json:"ui"`
}

type SearchConfig struct {
	// Roots searched by the finder tool, in order. "~" is expanded.
	Paths []string `json:"paths"`

	FinderTool    string `json:"finder_tool"`    // Default: fd
	GrepTool      string `json:"grep_tool"`      // Default: rg
	IncludeHidden bool   `json:"include_hidden"` // Default: true
	MaxResults    int    `json:"max_results"`    // Default: 500000 (per search)
}

type ProcessConfig struct {
	PollIntervalMs int   `json:"poll_interval_ms"` // Default: 100
	GracePeriodMs  int   `json:"grace_period_ms"`  // Default: 500
	JoinTimeoutMs  int   `json:"join_timeout_ms"`  // Default: 2000
	MaxOutputBytes int64 `json:"max_output_bytes"` // Default: 256 * 1024 * 1024 (256MB)
}

// PollInterval is the slice a worker waits on its process between cancellation checks.
func (p ProcessConfig) PollInterval() time.Duration {
	return time.Duration(p.PollIntervalMs) * time.Millisecond
}

func (p ProcessConfig) GracePeriod() time.Duration {
	return time.Duration(p.GracePeriodMs) * time.Millisecond
}

func (p ProcessConfig) JoinTimeout() time.Duration {
	return time.Duration(p.JoinTimeoutMs) * time.Millisecond
}

type LogConfig struct {
	Level string `json:"level"` // Default: info
	File  string `json:"file"`  // Default: ~/.config/quickfind/quickfind.log
}

type UIConfig struct {
	Editor string `json:"editor"` // Default: $EDITOR, then vi
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Paths:         []string{"~"},
			FinderTool:    "fd",
			GrepTool:      "rg",
			IncludeHidden: true,
			MaxResults:    500000,
		},
		Process: ProcessConfig{
			PollIntervalMs: 100,
			GracePeriodMs:  500,
			JoinTimeoutMs:  2000,
			MaxOutputBytes: 256 * 1024 * 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
