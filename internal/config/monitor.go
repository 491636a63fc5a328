package config

import (
	"fmt"
	"time"
)

// MonitorConfig configures the idle monitor.
type MonitorConfig struct {
	PollInterval string `yaml:"poll_interval"`
	// WatchStorage re-checks idleness as soon as the storage file changes.
	WatchStorage bool `yaml:"watch_storage"`
}

// GetPollInterval returns the poll interval as a duration.
func (m MonitorConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(m.PollInterval)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// Validate rejects unparsable or non-positive intervals.
func (m MonitorConfig) Validate() error {
	if m.PollInterval == "" {
		return nil
	}
	d, err := time.ParseDuration(m.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid monitor poll_interval %q: %w", m.PollInterval, err)
	}
	if d <= 0 {
		return fmt.Errorf("monitor poll_interval must be positive, got %s", d)
	}
	return nil
}
