package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// DispatcherConfig tunes the async sink dispatcher.
type DispatcherConfig struct {
	BufferSize int
	DropIfFull bool
}

// Dispatcher decouples audit emission from sink latency: records are
// queued on a channel and delivered by a single background goroutine, so a
// slow sink can never stall the operation being audited.
type Dispatcher struct {
	cfg       DispatcherConfig
	sink      Sink
	ch        chan Record
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewDispatcher starts a dispatcher delivering to sink. A nil sink is
// replaced with [NoOpSink].
func NewDispatcher(cfg DispatcherConfig, sink Sink) *Dispatcher {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:  cfg,
		sink: sink,
		ch:   make(chan Record, cfg.BufferSize),
		done: make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case record := <-d.ch:
			d.sink.Emit(context.Background(), record)
		case <-d.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case record := <-d.ch:
					d.sink.Emit(context.Background(), record)
				default:
					return
				}
			}
		}
	}
}

// Emit queues the record for delivery. With DropIfFull set, a full buffer
// drops the record and bumps the dropped counter instead of blocking.
func (d *Dispatcher) Emit(ctx context.Context, record Record) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- record:
		case <-d.done:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.ch <- record:
	case <-ctx.Done():
	case <-d.done:
	}
}

// Close drains the queue and stops the delivery goroutine. Safe to call
// more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped reports how many records were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
