package limiters

import (
	"sync"
	"time"
)

// Entry is the tracked state for one identifier. BlockedUntil is zero while
// the identifier is not blocked.
type Entry struct {
	Attempts     int       `json:"attempts"`
	LastAttempt  time.Time `json:"last_attempt"`
	BlockedUntil time.Time `json:"blocked_until,omitzero"`
}

// Blocked reports whether the entry is blocked as of now.
func (e Entry) Blocked(now time.Time) bool {
	return !e.BlockedUntil.IsZero() && e.BlockedUntil.After(now)
}

// Store holds rate-limit entries keyed by identifier. Implementations must
// be safe for concurrent use; the [Limiter] serializes its own
// read-modify-write cycles, so Get/Set need no compare-and-swap semantics.
type Store interface {
	Get(identifier string) (Entry, bool)
	Set(identifier string, entry Entry)
	Delete(identifier string)

	// Sweep removes entries whose block expired before now and returns the
	// number removed. Entries still inside their tracking window are kept.
	Sweep(now time.Time) int
}

// MemoryStore is the default in-process [Store].
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get returns the entry for identifier, if tracked.
func (s *MemoryStore) Get(identifier string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[identifier]
	return entry, ok
}

// Set stores the entry for identifier.
func (s *MemoryStore) Set(identifier string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[identifier] = entry
}

// Delete removes the entry for identifier. Deleting an unknown identifier
// is a no-op.
func (s *MemoryStore) Delete(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, identifier)
}

// Sweep removes entries whose block has expired.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if !entry.BlockedUntil.IsZero() && entry.BlockedUntil.Before(now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked identifiers.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
