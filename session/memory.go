package session

import (
	"sync"
	"time"
)

// MemoryStorage is an in-process [Storage], used by tests and by embedders
// without a persistent local store.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key.
func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key.
func (s *MemoryStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// TickerScheduler is the production [Scheduler], backed by time.Ticker.
type TickerScheduler struct{}

// Schedule runs fn every interval until cancel is called. Cancel waits for
// an in-flight fn to finish.
func (TickerScheduler) Schedule(interval time.Duration, fn func()) (cancel func()) {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
			<-stopped
		})
	}
}

// ProcessBroadcaster is an in-process [Broadcaster] hub: every listener
// except the sender receives each message. It stands in for a browser
// BroadcastChannel when several local contexts live in one process, and it
// drives the cross-tab tests.
type ProcessBroadcaster struct {
	hub *BroadcastHub
	id  int
}

// BroadcastHub connects ProcessBroadcaster endpoints.
type BroadcastHub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int][]func(Message)
}

// NewBroadcastHub returns an empty hub.
func NewBroadcastHub() *BroadcastHub {
	return &BroadcastHub{listeners: make(map[int][]func(Message))}
}

// Endpoint creates a new endpoint on the hub, one per local context.
func (h *BroadcastHub) Endpoint() *ProcessBroadcaster {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	return &ProcessBroadcaster{hub: h, id: h.nextID}
}

// Send delivers msg to every listener registered on other endpoints.
func (b *ProcessBroadcaster) Send(msg Message) {
	b.hub.mu.Lock()
	var targets []func(Message)
	for id, fns := range b.hub.listeners {
		if id == b.id {
			continue
		}
		targets = append(targets, fns...)
	}
	b.hub.mu.Unlock()

	for _, fn := range targets {
		fn(msg)
	}
}

// Listen registers fn for messages from other endpoints.
func (b *ProcessBroadcaster) Listen(fn func(Message)) (remove func()) {
	b.hub.mu.Lock()
	b.hub.listeners[b.id] = append(b.hub.listeners[b.id], fn)
	idx := len(b.hub.listeners[b.id]) - 1
	b.hub.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.hub.mu.Lock()
			fns := b.hub.listeners[b.id]
			if idx < len(fns) {
				fns[idx] = func(Message) {}
			}
			b.hub.mu.Unlock()
		})
	}
}
