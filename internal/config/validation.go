package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Search
	if strings.TrimSpace(c.Search.FinderTool) == "" {
		errs = append(errs, "search.finder_tool must not be empty")
	}
	if strings.TrimSpace(c.Search.GrepTool) == "" {
		errs = append(errs, "search.grep_tool must not be empty")
	}
	if c.Search.MaxResults < 1 {
		errs = append(errs, "search.max_results must be >= 1")
	}

	// Process
	if c.Process.PollIntervalMs < 1 {
		errs = append(errs, "process.poll_interval_ms must be >= 1")
	}
	if c.Process.GracePeriodMs < 1 {
		errs = append(errs, "process.grace_period_ms must be >= 1")
	}
	if c.Process.JoinTimeoutMs < 1 {
		errs = append(errs, "process.join_timeout_ms must be >= 1")
	}
	if c.Process.MaxOutputBytes < 1 {
		errs = append(errs, "process.max_output_bytes must be >= 1")
	}

	// The poll slice bounds teardown latency, so it must fit inside the join budget.
	if c.Process.PollIntervalMs > c.Process.JoinTimeoutMs {
		errs = append(errs, "process.poll_interval_ms must be <= process.join_timeout_ms")
	}

	// Log
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, "log.level must be one of debug, info, warn, error")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
