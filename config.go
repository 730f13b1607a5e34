package securecore

import (
	"errors"
	"time"

	"github.com/conta2go/securecore/crypto"
	"github.com/conta2go/securecore/password"
)

// Entity types with built-in sensitive-field lists.
const (
	EntityCompany = "company"
	EntityClient  = "client"
)

// defaultBreachTimeout is applied whenever PasswordConfig.BreachTimeout is
// left at zero, so the breach lookup never runs on an unbounded HTTP client.
const defaultBreachTimeout = 5 * time.Second

// CryptoConfig configures field-level encryption. The master key is
// validated lazily on first use, never at Build, so an engine can be
// constructed before secrets are loaded.
type CryptoConfig struct {
	MasterKey string

	// EntityFields maps an entity type to the exact field names that are
	// encrypted at rest and masked in audit payloads. Field names not in
	// the list pass through untouched.
	EntityFields map[string][]string
}

// RateLimitConfig configures the sliding-window login limiter.
type RateLimitConfig struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration

	// SweepInterval bounds memory growth of the in-process store. Zero
	// disables the background sweep.
	SweepInterval time.Duration
}

// PasswordConfig configures local policy checks and the breach lookup.
type PasswordConfig struct {
	Policy password.Policy

	// BreachCheckEnabled toggles the k-anonymity range query against the
	// Have I Been Pwned API. The lookup fails open: an unreachable API
	// never rejects a password.
	BreachCheckEnabled bool
	BreachBaseURL      string
	BreachTimeout      time.Duration
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// PageSize is the default Limit for GetAuditLogs queries.
	PageSize int

	// MaxRecords caps the Redis-backed store. Ignored by other stores.
	MaxRecords int64

	// SensitiveKeys are the exact OldData/NewData keys masked before a
	// record is persisted or emitted. Matching is case-insensitive.
	SensitiveKeys []string

	// MaskVisibleChars is how many leading and trailing characters stay
	// readable in a masked value.
	MaskVisibleChars int

	// Dispatcher tuning for the async sink fan-out.
	BufferSize int
	DropIfFull bool

	// Suspicious-activity thresholds.
	FailureThreshold    int
	FailureWindow       time.Duration
	DistinctIPThreshold int
	DistinctIPWindow    time.Duration

	// RecentLoginWindow bounds the RecentLogins figure in GetAuditStats.
	RecentLoginWindow time.Duration
}

// BackupCodeConfig configures recovery-code generation.
type BackupCodeConfig struct {
	Count  int
	Length int
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config is the full engine configuration. Zero value is not usable;
// start from New() which seeds defaultConfig.
type Config struct {
	Crypto      CryptoConfig
	RateLimit   RateLimitConfig
	Password    PasswordConfig
	Audit       AuditConfig
	BackupCodes BackupCodeConfig
	Metrics     MetricsConfig
}

func defaultSensitiveKeys() []string {
	return []string{
		"password", "token", "secret", "key",
		"taxId", "bankAccount", "bankAccountNumber",
		"ssn", "creditCard",
	}
}

func defaultEntityFields() map[string][]string {
	return map[string][]string{
		EntityCompany: append([]string(nil), crypto.CompanyFields...),
		EntityClient:  append([]string(nil), crypto.ClientFields...),
	}
}

func defaultConfig() Config {
	return Config{
		Crypto: CryptoConfig{
			EntityFields: defaultEntityFields(),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   5,
			Window:        15 * time.Minute,
			BlockDuration: 30 * time.Minute,
			SweepInterval: time.Hour,
		},
		Password: PasswordConfig{
			Policy:             password.DefaultPolicy(),
			BreachCheckEnabled: true,
			BreachBaseURL:      password.DefaultBreachBaseURL,
			BreachTimeout:      defaultBreachTimeout,
		},
		Audit: AuditConfig{
			PageSize:            50,
			MaxRecords:          10_000,
			SensitiveKeys:       defaultSensitiveKeys(),
			MaskVisibleChars:    2,
			BufferSize:          256,
			DropIfFull:          true,
			FailureThreshold:    5,
			FailureWindow:       15 * time.Minute,
			DistinctIPThreshold: 3,
			DistinctIPWindow:    time.Hour,
			RecentLoginWindow:   24 * time.Hour,
		},
		BackupCodes: BackupCodeConfig{
			Count:  10,
			Length: 8,
		},
	}
}

// Validate rejects configurations that cannot work. The master key is
// deliberately not checked here.
func (c Config) Validate() error {
	if c.RateLimit.MaxAttempts <= 0 {
		return errors.New("RateLimit.MaxAttempts must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RateLimit.Window must be positive")
	}
	if c.RateLimit.BlockDuration <= 0 {
		return errors.New("RateLimit.BlockDuration must be positive")
	}
	if c.RateLimit.SweepInterval < 0 {
		return errors.New("RateLimit.SweepInterval must not be negative")
	}

	if c.Password.Policy.MinLength <= 0 {
		return errors.New("Password.Policy.MinLength must be positive")
	}
	if c.Password.BreachCheckEnabled && c.Password.BreachBaseURL == "" {
		return errors.New("Password.BreachBaseURL required when breach check enabled")
	}
	if c.Password.BreachTimeout < 0 {
		return errors.New("Password.BreachTimeout must not be negative")
	}

	if c.Audit.PageSize <= 0 {
		return errors.New("Audit.PageSize must be positive")
	}
	if c.Audit.MaxRecords <= 0 {
		return errors.New("Audit.MaxRecords must be positive")
	}
	if c.Audit.MaskVisibleChars < 0 {
		return errors.New("Audit.MaskVisibleChars must not be negative")
	}
	if c.Audit.FailureThreshold <= 0 {
		return errors.New("Audit.FailureThreshold must be positive")
	}
	if c.Audit.FailureWindow <= 0 {
		return errors.New("Audit.FailureWindow must be positive")
	}
	if c.Audit.DistinctIPThreshold <= 0 {
		return errors.New("Audit.DistinctIPThreshold must be positive")
	}
	if c.Audit.DistinctIPWindow <= 0 {
		return errors.New("Audit.DistinctIPWindow must be positive")
	}
	if c.Audit.RecentLoginWindow <= 0 {
		return errors.New("Audit.RecentLoginWindow must be positive")
	}

	if c.BackupCodes.Count <= 0 {
		return errors.New("BackupCodes.Count must be positive")
	}
	if c.BackupCodes.Length <= 0 {
		return errors.New("BackupCodes.Length must be positive")
	}

	return nil
}

func cloneConfig(c Config) Config {
	out := c

	if c.Crypto.EntityFields != nil {
		out.Crypto.EntityFields = make(map[string][]string, len(c.Crypto.EntityFields))
		for entity, fields := range c.Crypto.EntityFields {
			out.Crypto.EntityFields[entity] = append([]string(nil), fields...)
		}
	}
	out.Audit.SensitiveKeys = append([]string(nil), c.Audit.SensitiveKeys...)

	return out
}
