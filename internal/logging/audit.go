package logging

import (
	"time"

	"go.uber.org/zap"
)

// AuditEventType names an admin-facing action worth keeping a trail of.
type AuditEventType string

const (
	// Admin mode unlock attempts
	AuditAdminUnlock AuditEventType = "admin_unlock"

	// Catalog and settings changes
	AuditServicesChange AuditEventType = "services_change"
	AuditSettingsChange AuditEventType = "settings_change"

	// Playback and activity state written from the CLI
	AuditPlaybackChange AuditEventType = "playback_change"
	AuditActivityTouch  AuditEventType = "activity_touch"
)

// CategoryAudit is the logger name audit events are written under.
const CategoryAudit Category = "audit"

// AuditEvent is one audit trail entry.
type AuditEvent struct {
	Type    AuditEventType
	Target  string // key or record the action touched
	Action  string
	Success bool
	Err     error
	Fields  []zap.Field
}

// Audit writes e to the audit logger. Failures are logged at warn so they
// stand out in the default info-level output.
func Audit(e AuditEvent) {
	fields := make([]zap.Field, 0, len(e.Fields)+5)
	fields = append(fields,
		zap.String("event", string(e.Type)),
		zap.String("target", e.Target),
		zap.String("action", e.Action),
		zap.Bool("success", e.Success),
		zap.Int64("ts", time.Now().UnixMilli()),
	)
	fields = append(fields, e.Fields...)

	log := Get(CategoryAudit)
	if e.Err != nil || !e.Success {
		if e.Err != nil {
			fields = append(fields, zap.Error(e.Err))
		}
		log.Warn("audit", fields...)
		return
	}
	log.Info("audit", fields...)
}

// AuditWrite records the outcome of a store write.
func AuditWrite(t AuditEventType, target, action string, err error) {
	Audit(AuditEvent{
		Type:    t,
		Target:  target,
		Action:  action,
		Success: err == nil,
		Err:     err,
	})
}
