package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the default in-process [Store]. Suitable for tests and
// single-replica deployments; records are lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Create appends the record.
func (s *MemoryStore) Create(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Find returns the newest-first page selected by filters.
func (s *MemoryStore) Find(_ context.Context, filters Filters) ([]Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Record
	for i := len(s.records) - 1; i >= 0; i-- {
		if filters.Matches(s.records[i]) {
			matched = append(matched, s.records[i])
		}
	}

	total := len(matched)
	offset := filters.Offset
	if offset > total {
		offset = total
	}
	end := total
	if filters.Limit > 0 && offset+filters.Limit < end {
		end = offset + filters.Limit
	}

	page := make([]Record, end-offset)
	copy(page, matched[offset:end])
	return page, total, nil
}

// Count returns the number of matching records.
func (s *MemoryStore) Count(_ context.Context, filters Filters) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.records {
		if filters.Matches(r) {
			count++
		}
	}
	return count, nil
}

// DistinctIPs returns the distinct source IPs for the user since the
// given time.
func (s *MemoryStore) DistinctIPs(_ context.Context, userID string, action Action, result Result, since time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var ips []string
	for _, r := range s.records {
		if r.UserID != userID || r.Action != action || r.IPAddress == "" {
			continue
		}
		if result != "" && r.Result != result {
			continue
		}
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		if _, ok := seen[r.IPAddress]; ok {
			continue
		}
		seen[r.IPAddress] = struct{}{}
		ips = append(ips, r.IPAddress)
	}
	return ips, nil
}
