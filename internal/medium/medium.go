// Package medium provides the string-keyed persistent key-value media the
// preference store runs on: SQLite for devices, a JSON file for simple
// deployments and an in-memory map for tests.
package medium

import (
	"context"
	"errors"
	"fmt"

	"kiosk/internal/config"
)

// ErrClosed is returned by every operation on a closed medium.
var ErrClosed = errors.New("medium closed")

// Medium is an asynchronous string key-value store. Get reports ok=false for
// an absent key. Both operations may fail; callers decide how to degrade.
type Medium interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Pathed is implemented by media backed by a single file on disk.
type Pathed interface {
	Path() string
}

// Open builds the medium selected by cfg.
func Open(cfg config.StorageConfig) (Medium, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLite(cfg.Path, cfg.GetBusyTimeout())
	case config.BackendFile:
		return NewFile(cfg.Path)
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
