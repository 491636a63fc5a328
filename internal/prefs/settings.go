package prefs

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// GetAdminSettings returns the admin settings, seeding the defaults when
// absent. A failed read, or a stored record that is incomplete or breaks
// Validate, falls back to the defaults.
func (s *Store) GetAdminSettings(ctx context.Context) Result[AdminSettings] {
	return readJSON(ctx, s, "GetAdminSettings", KeyAdminSettings, DefaultAdminSettings, true, AdminSettings.Validate)
}

// SaveAdminSettings replaces the admin settings. Records that fail Validate
// are rejected.
func (s *Store) SaveAdminSettings(ctx context.Context, a AdminSettings) Outcome {
	if err := a.Validate(); err != nil {
		s.log.Warn("rejecting admin settings", zap.Error(err))
		return Outcome{Key: KeyAdminSettings, Err: &StorageError{Op: "SaveAdminSettings", Key: KeyAdminSettings, Kind: ErrInvalid, Err: err}}
	}
	return s.writeJSON(ctx, "SaveAdminSettings", KeyAdminSettings, a)
}

// Validate checks the record invariants: a non-empty password and
// non-negative limits.
func (a AdminSettings) Validate() error {
	if a.Password == "" {
		return errors.New("admin password must not be empty")
	}
	if a.InactivityTimeoutMs < 0 || a.MaxUploadBytes < 0 {
		return errors.New("inactivity timeout and max upload size must be non-negative")
	}
	return nil
}
