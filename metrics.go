package securecore

import (
	"sync/atomic"
	"time"
)

// MetricID indexes one engine counter.
type MetricID uint16

const (
	// MetricRateLimitAllowed counts rate-limit checks that passed.
	MetricRateLimitAllowed MetricID = iota
	// MetricRateLimitBlocked counts rate-limit checks that were denied.
	MetricRateLimitBlocked
	// MetricRateLimitCleared counts explicit limiter resets.
	MetricRateLimitCleared
	// MetricAuditWritten counts audit records accepted by the store.
	MetricAuditWritten
	// MetricAuditStoreFailed counts swallowed audit persistence failures.
	MetricAuditStoreFailed
	// MetricSuspiciousDetected counts suspicious-activity detections.
	MetricSuspiciousDetected
	// MetricAlertsSent counts records forwarded to the alert sink.
	MetricAlertsSent
	// MetricFieldEncrypted counts entity records field-encrypted.
	MetricFieldEncrypted
	// MetricFieldDecryptFailed counts isolated per-field decrypt failures.
	MetricFieldDecryptFailed
	// MetricBreachCheckFailed counts breach lookups that failed open.
	MetricBreachCheckFailed
	// MetricBackupCodeGenerated counts generated backup-code batches.
	MetricBackupCodeGenerated
	// MetricBackupCodeUsed counts successfully consumed backup codes.
	MetricBackupCodeUsed
	// MetricBackupCodeFailed counts rejected backup-code attempts.
	MetricBackupCodeFailed
	// MetricBreachLatency is the latency histogram for breach lookups.
	MetricBreachLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// Each counter gets its own cache line so hot counters on different cores
// do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the in-process counter set. All methods are safe for
// concurrent use and are no-ops on a nil or disabled receiver.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics builds a counter set from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc bumps the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only MetricBreachLatency carries a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricBreachLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricBreachLatency].buckets[i])
		}
		s.Histograms[MetricBreachLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
