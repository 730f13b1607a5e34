package securecore

import (
	"io"
	"time"

	"github.com/conta2go/securecore/internal/audit"
	"github.com/conta2go/securecore/internal/limiters"
)

// Audit model, re-exported from internal/audit so callers never import the
// internal package directly.
type (
	// AuditAction identifies the operation an audit record describes.
	AuditAction = audit.Action
	// AuditResult classifies the outcome of the audited operation.
	AuditResult = audit.Result
	// AuditRecord is one immutable audit-trail entry.
	AuditRecord = audit.Record
	// AuditFilters narrows GetAuditLogs and GetAuditStats queries.
	AuditFilters = audit.Filters
	// AuditPage is one page of audit records plus the pagination envelope.
	AuditPage = audit.Page
	// AuditStats is the aggregate view returned by GetAuditStats.
	AuditStats = audit.Stats
	// GeoLocation is an optional coarse location attached to a record.
	GeoLocation = audit.GeoLocation

	// AuditStore persists audit records. Implementations must tolerate
	// concurrent writers.
	AuditStore = audit.Store
	// AuditSink receives a copy of every audit record asynchronously.
	AuditSink = audit.Sink
)

// Authentication and account lifecycle actions.
const (
	ActionUserLogin       = audit.ActionUserLogin
	ActionUserLogout      = audit.ActionUserLogout
	ActionUserLoginFailed = audit.ActionUserLoginFailed
	ActionMFAEnabled      = audit.ActionMFAEnabled
	ActionMFADisabled     = audit.ActionMFADisabled
	ActionPasswordChanged = audit.ActionPasswordChanged
	ActionEmailChanged    = audit.ActionEmailChanged
)

// Accounting data actions.
const (
	ActionCompanyCreated     = audit.ActionCompanyCreated
	ActionCompanyUpdated     = audit.ActionCompanyUpdated
	ActionCompanyDeleted     = audit.ActionCompanyDeleted
	ActionTransactionCreated = audit.ActionTransactionCreated
	ActionTransactionUpdated = audit.ActionTransactionUpdated
	ActionTransactionDeleted = audit.ActionTransactionDeleted
	ActionReportGenerated    = audit.ActionReportGenerated
	ActionDataExported       = audit.ActionDataExported
)

// Administration actions.
const (
	ActionUserCreated       = audit.ActionUserCreated
	ActionUserUpdated       = audit.ActionUserUpdated
	ActionUserDeleted       = audit.ActionUserDeleted
	ActionRoleChanged       = audit.ActionRoleChanged
	ActionPermissionChanged = audit.ActionPermissionChanged
)

// Security actions.
const (
	ActionSuspiciousActivity = audit.ActionSuspiciousActivity
	ActionAccessDenied       = audit.ActionAccessDenied
	ActionRateLimitExceeded  = audit.ActionRateLimitExceeded
	ActionSessionExpired     = audit.ActionSessionExpired
)

// Audit results.
const (
	ResultSuccess = audit.ResultSuccess
	ResultFailure = audit.ResultFailure
	ResultBlocked = audit.ResultBlocked
	ResultWarning = audit.ResultWarning
)

// NewMemoryAuditStore returns the default in-process audit store.
func NewMemoryAuditStore() AuditStore {
	return audit.NewMemoryStore()
}

// NewChannelSink returns a sink exposing records on a buffered channel,
// useful for tests and in-process consumers.
func NewChannelSink(buffer int) *audit.ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON line per record to w.
func NewJSONWriterSink(w io.Writer) *audit.JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewRotatingFileSink returns a sink appending JSON lines to a
// size-rotated file. Close flushes and releases the file.
func NewRotatingFileSink(path string, maxSizeMB, maxBackups int) *audit.RotatingFileSink {
	return audit.NewRotatingFileSink(path, maxSizeMB, maxBackups)
}

// Rate-limit model, re-exported from internal/limiters.
type (
	// RateLimitEntry is the per-identifier counter state a store persists.
	RateLimitEntry = limiters.Entry
	// RateLimitStore persists rate-limit entries.
	RateLimitStore = limiters.Store
	// RateLimitResult is the outcome of a rate-limit check. A denied check
	// is a normal outcome, not an error.
	RateLimitResult = limiters.Result
)

// NewMemoryRateLimitStore returns the default in-process rate-limit store.
func NewMemoryRateLimitStore() RateLimitStore {
	return limiters.NewMemoryStore()
}

// BackupCode is one recovery code inside an encrypted batch.
type BackupCode struct {
	Code   string     `json:"code"`
	Used   bool       `json:"used"`
	UsedAt *time.Time `json:"used_at,omitempty"`
}

// BackupCodeVerification is the outcome of VerifyBackupCode. When Valid is
// true, UpdatedBlob carries the batch with the consumed code marked used;
// the caller is responsible for persisting it.
type BackupCodeVerification struct {
	Valid       bool
	UpdatedBlob string
	Remaining   int
}
