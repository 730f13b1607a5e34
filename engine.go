package securecore

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conta2go/securecore/crypto"
	"github.com/conta2go/securecore/internal/audit"
	"github.com/conta2go/securecore/internal/limiters"
	"github.com/conta2go/securecore/password"
)

// Engine is the assembled security core. All methods are safe for
// concurrent use. Build one per process via the Builder and Close it on
// shutdown.
type Engine struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	cipher *crypto.Cipher
	codec  *crypto.Codec

	limiter *limiters.Limiter

	auditStore audit.Store
	dispatcher *audit.Dispatcher
	alert      AlertSink

	breach *password.BreachClient

	metrics *Metrics

	sensitiveKeys map[string]struct{}

	sweepDone chan struct{}
	sweepWG   sync.WaitGroup
	closeOnce sync.Once
}

// Close stops the background sweep and drains the audit dispatcher. Safe
// to call more than once.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		close(e.sweepDone)
		e.sweepWG.Wait()
		e.dispatcher.Close()
	})
}

// MetricsSnapshot copies the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// DroppedAuditRecords reports how many audit records the async dispatcher
// discarded because its buffer was full.
func (e *Engine) DroppedAuditRecords() uint64 {
	return e.dispatcher.Dropped()
}

func (e *Engine) sweepLoop(interval time.Duration) {
	defer e.sweepWG.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := e.limiter.Sweep()
			if removed > 0 {
				e.logger.Debug("rate limit sweep",
					zap.Int("removed", removed))
			}
		case <-e.sweepDone:
			return
		}
	}
}
