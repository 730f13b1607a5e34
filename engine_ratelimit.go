package securecore

import (
	"context"

	"go.uber.org/zap"
)

// CheckRateLimit records one attempt for identifier (typically an email,
// user id, or client IP) and reports whether it is allowed. Denial is a
// normal structured outcome, never an error: RetryAfter carries the wait
// time. A denied check also appends a rate_limit_exceeded audit record.
func (e *Engine) CheckRateLimit(ctx context.Context, identifier string) RateLimitResult {
	result := e.limiter.Check(identifier)

	if result.Allowed {
		e.metrics.Inc(MetricRateLimitAllowed)
		return result
	}

	e.metrics.Inc(MetricRateLimitBlocked)
	e.logger.Warn("rate limit exceeded",
		zap.String("identifier", identifier),
		zap.Duration("retry_after", result.RetryAfter))

	e.CreateAuditLog(ctx, AuditEntry{
		Action:   ActionRateLimitExceeded,
		Resource: "rate_limiter",
		Result:   ResultBlocked,
		Metadata: map[string]string{
			"identifier":  identifier,
			"retry_after": result.RetryAfter.String(),
		},
	})

	return result
}

// ClearRateLimit forgets identifier's attempt history. Called after a
// successful authentication so earlier failures stop counting.
func (e *Engine) ClearRateLimit(identifier string) {
	e.limiter.Clear(identifier)
	e.metrics.Inc(MetricRateLimitCleared)
}

// SweepRateLimits removes expired blocks immediately instead of waiting
// for the background interval. Returns how many entries were removed.
func (e *Engine) SweepRateLimits() int {
	return e.limiter.Sweep()
}
