package password

import (
	"fmt"
	"strings"
	"unicode"
)

const specialChars = `!@#$%^&*(),.?":{}|<>`

// Policy is the local complexity rule set.
type Policy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireDigit   bool
	RequireSpecial bool
}

// DefaultPolicy returns the production rule set.
func DefaultPolicy() Policy {
	return Policy{
		MinLength:      12,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
	}
}

// Validate returns every violated rule, not just the first, so callers can
// surface the complete list to the user in one pass. An empty slice means
// the password satisfies the policy.
func (p Policy) Validate(password string) []string {
	var violations []string

	if len(password) < p.MinLength {
		violations = append(violations,
			fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if p.RequireUpper && !hasUpper {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if p.RequireLower && !hasLower {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if p.RequireDigit && !hasDigit {
		violations = append(violations, "password must contain at least one number")
	}
	if p.RequireSpecial && !hasSpecial {
		violations = append(violations, "password must contain at least one special character")
	}

	return violations
}

// Guessable substrings that show up at the top of every cracking wordlist.
var commonPatterns = []string{
	"123456",
	"12345678",
	"password",
	"qwerty",
	"admin",
	"welcome",
}

const maxRepeatRun = 3

// WarnCommonPatterns reports a single warning when the password contains a
// well-known guessable substring.
func WarnCommonPatterns(password string) (string, bool) {
	lower := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return "password contains common patterns that are easy to guess", true
		}
	}
	return "", false
}

// WarnRepeatedRuns reports a warning when any character repeats more than
// maxRepeatRun times in a row.
func WarnRepeatedRuns(password string) (string, bool) {
	run := 0
	var prev rune
	for i, r := range password {
		if i > 0 && r == prev {
			run++
			if run >= maxRepeatRun {
				return "password contains too many repeated characters in a row", true
			}
		} else {
			run = 0
		}
		prev = r
	}
	return "", false
}

// SecurityCheck is the composed advisory result: IsSecure is true only
// when no warning fired. Breach-lookup failures contribute no warning
// (fail-open), so an unreachable breach service never flips IsSecure.
type SecurityCheck struct {
	IsSecure bool
	Warnings []string
}
