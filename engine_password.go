package securecore

import (
	"context"

	"go.uber.org/zap"

	"github.com/conta2go/securecore/password"
)

// ValidatePassword checks pw against the configured policy and returns
// every violated rule. An empty slice means the policy is satisfied.
func (e *Engine) ValidatePassword(pw string) []string {
	return e.config.Password.Policy.Validate(pw)
}

// CheckPasswordSecurity composes the policy, the guessability heuristics,
// and the breach lookup into one advisory result. The breach lookup fails
// open: when the API is unreachable the check proceeds on local rules
// alone and the failure is logged, never surfaced to the caller.
func (e *Engine) CheckPasswordSecurity(ctx context.Context, pw string) password.SecurityCheck {
	warnings := e.ValidatePassword(pw)

	if w, ok := password.WarnCommonPatterns(pw); ok {
		warnings = append(warnings, w)
	}
	if w, ok := password.WarnRepeatedRuns(pw); ok {
		warnings = append(warnings, w)
	}

	if e.breach != nil {
		start := e.now()
		compromised, err := e.breach.IsCompromised(ctx, pw)
		e.metrics.Observe(MetricBreachLatency, e.now().Sub(start))

		switch {
		case err != nil:
			e.metrics.Inc(MetricBreachCheckFailed)
			e.logger.Warn("breach check unavailable, continuing on local rules",
				zap.Error(err))
		case compromised:
			warnings = append(warnings,
				"password has appeared in known data breaches")
		}
	}

	return password.SecurityCheck{
		IsSecure: len(warnings) == 0,
		Warnings: warnings,
	}
}
