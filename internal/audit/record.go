package audit

import "time"

// Action identifies the security-relevant operation an audit record
// describes.
type Action string

// Audit actions, grouped by concern.
const (
	ActionUserLogin       Action = "user_login"
	ActionUserLogout      Action = "user_logout"
	ActionUserLoginFailed Action = "user_login_failed"
	ActionMFAEnabled      Action = "mfa_enabled"
	ActionMFADisabled     Action = "mfa_disabled"
	ActionPasswordChanged Action = "password_changed"
	ActionEmailChanged    Action = "email_changed"

	ActionCompanyCreated     Action = "company_created"
	ActionCompanyUpdated     Action = "company_updated"
	ActionCompanyDeleted     Action = "company_deleted"
	ActionTransactionCreated Action = "transaction_created"
	ActionTransactionUpdated Action = "transaction_updated"
	ActionTransactionDeleted Action = "transaction_deleted"

	ActionReportGenerated Action = "report_generated"
	ActionDataExported    Action = "data_exported"

	ActionUserCreated       Action = "user_created"
	ActionUserUpdated       Action = "user_updated"
	ActionUserDeleted       Action = "user_deleted"
	ActionRoleChanged       Action = "role_changed"
	ActionPermissionChanged Action = "permission_changed"

	ActionSuspiciousActivity Action = "suspicious_activity"
	ActionAccessDenied       Action = "access_denied"
	ActionRateLimitExceeded  Action = "rate_limit_exceeded"
	ActionSessionExpired     Action = "session_expired"
)

// Result classifies the outcome of the audited operation.
type Result string

// Audit results.
const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultBlocked Result = "blocked"
	ResultWarning Result = "warning"
)

// GeoLocation is an optional coarse location attached to a record.
type GeoLocation struct {
	Country string  `json:"country,omitempty"`
	City    string  `json:"city,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// Record is one immutable audit-trail entry. OldData and NewData are
// stored masked; ID and Timestamp are assigned by the engine's write path.
type Record struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id,omitempty"`
	Action      Action            `json:"action"`
	Resource    string            `json:"resource"`
	ResourceID  string            `json:"resource_id,omitempty"`
	IPAddress   string            `json:"ip_address,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
	Geo         *GeoLocation      `json:"geo,omitempty"`
	OldData     map[string]string `json:"old_data,omitempty"`
	NewData     map[string]string `json:"new_data,omitempty"`
	Result      Result            `json:"result"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Filters narrows queries against the audit store. Zero-valued fields
// match everything; Limit defaults to the engine's configured page size.
type Filters struct {
	UserID   string
	Action   Action
	Resource string
	Result   Result
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// Matches reports whether r satisfies every set filter field.
func (f Filters) Matches(r Record) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.Action != "" && r.Action != f.Action {
		return false
	}
	if f.Resource != "" && r.Resource != f.Resource {
		return false
	}
	if f.Result != "" && r.Result != f.Result {
		return false
	}
	if !f.Since.IsZero() && r.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && r.Timestamp.After(f.Until) {
		return false
	}
	return true
}

// Page is one page of audit records plus the pagination envelope.
type Page struct {
	Records []Record
	Total   int
	HasMore bool
}

// Stats is the aggregate view returned by the engine's GetAuditStats,
// computed as of call time (never cached).
type Stats struct {
	TotalLogs          int
	FailedActions      int
	SuspiciousActivity int
	RecentLogins       int
}
