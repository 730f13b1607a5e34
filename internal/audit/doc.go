// Package audit holds the audit-trail data model, the pluggable storage
// interface with its memory and Redis implementations, and the async
// dispatch machinery (Dispatcher + Sink implementations).
//
// Records are immutable once written. All writes go through the engine's
// CreateAuditLog so sensitive-field masking can never be bypassed; nothing
// in this package mutates or deletes stored records (retention is an
// external concern).
package audit
