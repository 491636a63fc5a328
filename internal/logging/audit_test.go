package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observeRoot(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetRoot(zap.New(core))
	t.Cleanup(func() { SetRoot(nil) })
	return logs
}

func TestAuditSuccess(t *testing.T) {
	logs := observeRoot(t)

	Audit(AuditEvent{
		Type:    AuditAdminUnlock,
		Target:  "admin_settings",
		Action:  "verify",
		Success: true,
		Fields:  []zap.Field{zap.String("via", "cli")},
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, zapcore.InfoLevel, e.Level)
	assert.Equal(t, "audit", e.LoggerName)
	ctx := e.ContextMap()
	assert.Equal(t, "admin_unlock", ctx["event"])
	assert.Equal(t, true, ctx["success"])
	assert.Equal(t, "cli", ctx["via"])
}

func TestAuditWriteFailure(t *testing.T) {
	logs := observeRoot(t)

	AuditWrite(AuditServicesChange, "web_services", "add", errors.New("disk full"))

	entries := logs.FilterField(zap.String("event", "services_change")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
	assert.Equal(t, false, entries[0].ContextMap()["success"])
}

func TestAuditDeniedWithoutError(t *testing.T) {
	logs := observeRoot(t)

	Audit(AuditEvent{Type: AuditAdminUnlock, Action: "verify"})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
