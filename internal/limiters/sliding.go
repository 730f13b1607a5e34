package limiters

import (
	"sync"
	"time"
)

// Config holds the sliding-window tuning parameters.
type Config struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

// Result is the outcome of a rate-limit check. A denied check is an
// expected control-flow outcome, not an error: RetryAfter carries the wait
// time when Allowed is false.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter enforces the CLEAR -> TRACKING -> BLOCKED -> CLEAR state machine
// per identifier. All mutation happens under a single mutex so two
// concurrent checks for the same identifier cannot both observe a
// below-threshold counter and pass.
type Limiter struct {
	mu    sync.Mutex
	store Store
	cfg   Config
	now   func() time.Time
}

// New creates a Limiter over store. A nil now defaults to [time.Now];
// tests inject a fake clock.
func New(store Store, cfg Config, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{store: store, cfg: cfg, now: now}
}

// Check records an attempt for identifier and reports whether it is
// allowed. The first sight of an identifier starts tracking; attempts
// inside the window accumulate; exceeding MaxAttempts blocks the
// identifier for BlockDuration; a window that elapses without exceeding
// the limit resets the counter to 1 (sliding, not cumulative).
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.store.Get(identifier)

	if !ok {
		l.store.Set(identifier, Entry{Attempts: 1, LastAttempt: now})
		return Result{Allowed: true}
	}

	if entry.Blocked(now) {
		return Result{Allowed: false, RetryAfter: ceilSeconds(entry.BlockedUntil.Sub(now))}
	}

	if now.Sub(entry.LastAttempt) > l.cfg.Window {
		l.store.Set(identifier, Entry{Attempts: 1, LastAttempt: now})
		return Result{Allowed: true}
	}

	entry.Attempts++
	entry.LastAttempt = now

	if entry.Attempts > l.cfg.MaxAttempts {
		entry.BlockedUntil = now.Add(l.cfg.BlockDuration)
		l.store.Set(identifier, entry)
		return Result{Allowed: false, RetryAfter: ceilSeconds(l.cfg.BlockDuration)}
	}

	l.store.Set(identifier, entry)
	return Result{Allowed: true}
}

// Clear unconditionally forgets identifier. Called after successful
// authentication.
func (l *Limiter) Clear(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Delete(identifier)
}

// Sweep removes expired blocks from the store, bounding memory growth.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.Sweep(l.now())
}

func ceilSeconds(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return secs * time.Second
}
