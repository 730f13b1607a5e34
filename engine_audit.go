package securecore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conta2go/securecore/crypto"
)

// AuditEntry is the caller-supplied part of an audit record. The engine
// assigns the id and timestamp, stamps the client IP and User-Agent from
// ctx, and masks sensitive keys before the record goes anywhere.
type AuditEntry struct {
	UserID     string
	Action     AuditAction
	Resource   string
	ResourceID string
	Geo        *GeoLocation
	OldData    map[string]string
	NewData    map[string]string
	Result     AuditResult
	Metadata   map[string]string
}

// CreateAuditLog appends one immutable record to the audit trail and
// returns the record as written. Persistence failures are logged and
// swallowed: auditing must never break the operation being audited. A
// masked line is always mirrored to the structured logger, and failed,
// blocked, and suspicious records are forwarded to the alert sink.
func (e *Engine) CreateAuditLog(ctx context.Context, entry AuditEntry) AuditRecord {
	record := AuditRecord{
		ID:         uuid.NewString(),
		UserID:     entry.UserID,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		IPAddress:  clientIPFromContext(ctx),
		UserAgent:  userAgentFromContext(ctx),
		Geo:        entry.Geo,
		OldData:    e.maskData(entry.OldData),
		NewData:    e.maskData(entry.NewData),
		Result:     entry.Result,
		Metadata:   entry.Metadata,
		Timestamp:  e.now().UTC(),
	}

	if err := e.auditStore.Create(ctx, record); err != nil {
		e.metrics.Inc(MetricAuditStoreFailed)
		e.logger.Error("audit record not persisted",
			zap.String("action", string(record.Action)),
			zap.Error(err))
	} else {
		e.metrics.Inc(MetricAuditWritten)
	}

	e.logger.Info("audit",
		zap.String("id", record.ID),
		zap.String("user_id", record.UserID),
		zap.String("action", string(record.Action)),
		zap.String("resource", record.Resource),
		zap.String("result", string(record.Result)),
		zap.String("ip", record.IPAddress))

	e.dispatcher.Emit(ctx, record)

	if record.Result == ResultFailure || record.Result == ResultBlocked ||
		record.Action == ActionSuspiciousActivity {
		e.metrics.Inc(MetricAlertsSent)
		e.alert.Alert(ctx, record)
	}

	return record
}

// GetAuditLogs queries the audit trail. A zero Limit uses the configured
// page size; HasMore tells the caller whether another page exists.
func (e *Engine) GetAuditLogs(ctx context.Context, filters AuditFilters) (AuditPage, error) {
	if filters.Limit <= 0 {
		filters.Limit = e.config.Audit.PageSize
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}

	records, total, err := e.auditStore.Find(ctx, filters)
	if err != nil {
		return AuditPage{}, err
	}

	return AuditPage{
		Records: records,
		Total:   total,
		HasMore: filters.Offset+len(records) < total,
	}, nil
}

// GetAuditStats aggregates the trail as of call time, scoped to one user
// when userID is non-empty. Nothing is cached: two calls straddling a
// write disagree by exactly that write.
func (e *Engine) GetAuditStats(ctx context.Context, userID string) (AuditStats, error) {
	total, err := e.auditStore.Count(ctx, AuditFilters{UserID: userID})
	if err != nil {
		return AuditStats{}, err
	}

	failed, err := e.auditStore.Count(ctx, AuditFilters{UserID: userID, Result: ResultFailure})
	if err != nil {
		return AuditStats{}, err
	}

	suspicious, err := e.auditStore.Count(ctx, AuditFilters{UserID: userID, Action: ActionSuspiciousActivity})
	if err != nil {
		return AuditStats{}, err
	}

	recentLogins, err := e.auditStore.Count(ctx, AuditFilters{
		UserID: userID,
		Action: ActionUserLogin,
		Result: ResultSuccess,
		Since:  e.now().Add(-e.config.Audit.RecentLoginWindow),
	})
	if err != nil {
		return AuditStats{}, err
	}

	return AuditStats{
		TotalLogs:          total,
		FailedActions:      failed,
		SuspiciousActivity: suspicious,
		RecentLogins:       recentLogins,
	}, nil
}

// DetectSuspiciousActivity applies the configured heuristics to userID's
// recent trail: a burst of failures inside the failure window, or
// successful logins from too many distinct IPs inside the IP window. The
// first heuristic that fires appends exactly one suspicious_activity
// record and short-circuits, so a single call never writes more than one.
func (e *Engine) DetectSuspiciousActivity(ctx context.Context, userID string) (bool, error) {
	now := e.now()

	failures, err := e.auditStore.Count(ctx, AuditFilters{
		UserID: userID,
		Result: ResultFailure,
		Since:  now.Add(-e.config.Audit.FailureWindow),
	})
	if err != nil {
		return false, err
	}

	if failures >= e.config.Audit.FailureThreshold {
		e.flagSuspicious(ctx, userID, "multiple_failed_attempts")
		return true, nil
	}

	ips, err := e.auditStore.DistinctIPs(ctx, userID,
		ActionUserLogin, ResultSuccess, now.Add(-e.config.Audit.DistinctIPWindow))
	if err != nil {
		return false, err
	}

	if len(ips) >= e.config.Audit.DistinctIPThreshold {
		e.flagSuspicious(ctx, userID, "multiple_ip_addresses")
		return true, nil
	}

	return false, nil
}

func (e *Engine) flagSuspicious(ctx context.Context, userID, reason string) {
	e.metrics.Inc(MetricSuspiciousDetected)
	e.CreateAuditLog(ctx, AuditEntry{
		UserID:   userID,
		Action:   ActionSuspiciousActivity,
		Resource: "security",
		Result:   ResultWarning,
		Metadata: map[string]string{"reason": reason},
	})
}

func (e *Engine) maskData(data map[string]string) map[string]string {
	if len(data) == 0 {
		return nil
	}

	out := make(map[string]string, len(data))
	for key, value := range data {
		if _, sensitive := e.sensitiveKeys[normalizeKey(key)]; sensitive {
			out[key] = crypto.MaskSensitiveData(value, e.config.Audit.MaskVisibleChars)
		} else {
			out[key] = value
		}
	}

	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}
