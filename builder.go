package securecore

import (
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/conta2go/securecore/crypto"
	"github.com/conta2go/securecore/internal/audit"
	"github.com/conta2go/securecore/internal/limiters"
	"github.com/conta2go/securecore/password"
)

// Builder assembles an Engine. Configure during initialization, call
// Build once, then treat the engine as immutable.
type Builder struct {
	config Config
	logger *zap.Logger
	redis  redis.UniversalClient

	rateStore  RateLimitStore
	auditStore AuditStore
	auditSink  AuditSink
	alertSink  AlertSink

	now func() time.Time

	built bool
}

// New returns a builder seeded with production defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration. Call it before the more
// specific With* methods or it will overwrite them.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithMasterKey sets the field-encryption master key. The key is checked
// lazily on first crypto use, not here.
func (b *Builder) WithMasterKey(key string) *Builder {
	b.config.Crypto.MasterKey = key
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRedis backs the rate-limit and audit stores with Redis instead of
// process memory, for multi-replica deployments. Explicitly provided
// stores take precedence.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRateLimitStore injects a custom rate-limit store.
func (b *Builder) WithRateLimitStore(store RateLimitStore) *Builder {
	b.rateStore = store
	return b
}

// WithAuditStore injects a custom audit store.
func (b *Builder) WithAuditStore(store AuditStore) *Builder {
	b.auditStore = store
	return b
}

// WithAuditSink receives an async copy of every audit record.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithAlertSink receives synchronous notifications for failed, blocked,
// and suspicious records.
func (b *Builder) WithAlertSink(sink AlertSink) *Builder {
	b.alertSink = sink
	return b
}

// WithClock overrides the engine's time source. Tests use this.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A builder can
// only be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	// A zero timeout would hand the breach lookup an unbounded HTTP client.
	if cfg.Password.BreachTimeout == 0 {
		cfg.Password.BreachTimeout = defaultBreachTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	rateStore := b.rateStore
	if rateStore == nil {
		if b.redis != nil {
			// Entries expire on their own once both the window and a
			// potential block have fully elapsed.
			ttl := cfg.RateLimit.Window + cfg.RateLimit.BlockDuration
			rateStore = limiters.NewRedisStore(b.redis, ttl)
		} else {
			rateStore = limiters.NewMemoryStore()
		}
	}

	auditStore := b.auditStore
	if auditStore == nil {
		if b.redis != nil {
			auditStore = audit.NewRedisStore(b.redis, cfg.Audit.MaxRecords)
		} else {
			auditStore = audit.NewMemoryStore()
		}
	}

	alertSink := b.alertSink
	if alertSink == nil {
		alertSink = NoOpAlertSink{}
	}

	cipher := crypto.NewCipher(cfg.Crypto.MasterKey)

	var breach *password.BreachClient
	if cfg.Password.BreachCheckEnabled {
		breach = password.NewBreachClient(
			password.WithBaseURL(cfg.Password.BreachBaseURL),
			password.WithHTTPClient(&http.Client{Timeout: cfg.Password.BreachTimeout}),
		)
	}

	sensitiveKeys := make(map[string]struct{}, len(cfg.Audit.SensitiveKeys))
	for _, key := range cfg.Audit.SensitiveKeys {
		sensitiveKeys[normalizeKey(key)] = struct{}{}
	}

	engine := &Engine{
		config:        cfg,
		logger:        logger,
		now:           now,
		cipher:        cipher,
		codec:         crypto.NewCodec(cipher, logger),
		limiter: limiters.New(rateStore, limiters.Config{
			MaxAttempts:   cfg.RateLimit.MaxAttempts,
			Window:        cfg.RateLimit.Window,
			BlockDuration: cfg.RateLimit.BlockDuration,
		}, now),
		auditStore: auditStore,
		dispatcher: audit.NewDispatcher(audit.DispatcherConfig{
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		alert:         alertSink,
		breach:        breach,
		metrics:       NewMetrics(cfg.Metrics),
		sensitiveKeys: sensitiveKeys,
		sweepDone:     make(chan struct{}),
	}

	if cfg.RateLimit.SweepInterval > 0 {
		engine.sweepWG.Add(1)
		go engine.sweepLoop(cfg.RateLimit.SweepInterval)
	}

	b.built = true

	return engine, nil
}
