package config

import (
	"fmt"
	"time"
)

// Backend names a key-value medium implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// ValidBackends lists all supported storage backends.
var ValidBackends = []Backend{BackendSQLite, BackendFile, BackendMemory}

// StorageConfig configures the medium behind the preference store.
type StorageConfig struct {
	Backend     Backend `yaml:"backend"`      // sqlite, file, memory
	Path        string  `yaml:"path"`         // database or JSON file; unused for memory
	BusyTimeout string  `yaml:"busy_timeout"` // sqlite busy_timeout
}

// GetBusyTimeout returns the sqlite busy timeout as a duration.
func (s StorageConfig) GetBusyTimeout() time.Duration {
	d, err := time.ParseDuration(s.BusyTimeout)
	if err != nil || d < 0 {
		return 5 * time.Second
	}
	return d
}

// Validate checks the backend name and that on-disk backends have a path.
func (s StorageConfig) Validate() error {
	valid := false
	for _, b := range ValidBackends {
		if s.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", s.Backend, ValidBackends)
	}
	if s.Backend != BackendMemory && s.Path == "" {
		return fmt.Errorf("storage backend %s requires a path", s.Backend)
	}
	return nil
}
