package kiosk

import (
	"context"
	"crypto/subtle"

	"kiosk/internal/logging"
	"kiosk/internal/prefs"
)

// SettingsReader is the part of prefs.Store the admin check needs.
type SettingsReader interface {
	GetAdminSettings(ctx context.Context) prefs.Result[prefs.AdminSettings]
}

// VerifyAdminPassword compares input with the stored admin password in
// constant time. An unreadable store falls back to the default settings.
func VerifyAdminPassword(ctx context.Context, store SettingsReader, input string) bool {
	want := store.GetAdminSettings(ctx).Value.Password
	ok := subtle.ConstantTimeCompare([]byte(want), []byte(input)) == 1
	logging.Audit(logging.AuditEvent{
		Type:    logging.AuditAdminUnlock,
		Target:  prefs.KeyAdminSettings,
		Action:  "verify",
		Success: ok,
	})
	return ok
}
