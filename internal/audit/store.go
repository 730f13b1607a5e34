package audit

import (
	"context"
	"errors"
	"time"
)

// ErrStoreUnavailable reports a storage backend failure. The engine's
// write path swallows it (auditing never blocks the audited operation);
// the read paths surface it to the caller.
var ErrStoreUnavailable = errors.New("audit store unavailable")

// Store is the durable boundary for audit records. Implementations must be
// safe for concurrent use and must treat records as append-only.
type Store interface {
	Create(ctx context.Context, record Record) error

	// Find returns the newest-first page selected by filters plus the total
	// match count before pagination.
	Find(ctx context.Context, filters Filters) ([]Record, int, error)

	// Count returns the number of records matching filters, ignoring
	// pagination fields.
	Count(ctx context.Context, filters Filters) (int, error)

	// DistinctIPs returns the distinct source IPs of records for userID
	// with the given action and result since the given time.
	DistinctIPs(ctx context.Context, userID string, action Action, result Result, since time.Time) ([]string, error)
}
