package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{"Empty Finder Tool", func(c *Config) { c.Search.FinderTool = " " }, "finder_tool"},
		{"Empty Grep Tool", func(c *Config) { c.Search.GrepTool = "" }, "grep_tool"},
		{"Zero Max Results", func(c *Config) { c.Search.MaxResults = 0 }, "max_results"},
		{"Zero Poll Interval", func(c *Config) { c.Process.PollIntervalMs = 0 }, "poll_interval_ms"},
		{"Zero Grace Period", func(c *Config) { c.Process.GracePeriodMs = 0 }, "grace_period_ms"},
		{"Zero Join Timeout", func(c *Config) { c.Process.JoinTimeoutMs = 0 }, "join_timeout_ms"},
		{"Zero Output Size", func(c *Config) { c.Process.MaxOutputBytes = 0 }, "max_output_bytes"},
		{"Poll Slower Than Join", func(c *Config) { c.Process.PollIntervalMs = 5000 }, "must be <= process.join_timeout_ms"},
		{"Unknown Log Level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "WARN"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.FinderTool = ""
	cfg.Process.GracePeriodMs = -1

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "finder_tool")
	assert.Contains(t, err.Error(), "grace_period_ms")
}
