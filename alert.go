package securecore

import "context"

// AlertSink is notified synchronously about records that warrant operator
// attention: failed or blocked results and suspicious-activity detections.
// Implementations should return quickly; anything slow belongs behind a
// queue on the implementation side.
type AlertSink interface {
	Alert(ctx context.Context, record AuditRecord)
}

// NoOpAlertSink discards alerts. The default when none is configured.
type NoOpAlertSink struct{}

// Alert implements AlertSink.
func (NoOpAlertSink) Alert(context.Context, AuditRecord) {}

// AlertFunc adapts a function to the AlertSink interface.
type AlertFunc func(ctx context.Context, record AuditRecord)

// Alert implements AlertSink.
func (f AlertFunc) Alert(ctx context.Context, record AuditRecord) {
	f(ctx, record)
}
