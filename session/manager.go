package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults for the periodic inactivity check.
const (
	DefaultInactivityTimeout = 15 * time.Minute
	DefaultCheckInterval     = 60 * time.Second
)

var (
	// ErrAlreadyRunning reports a Start on a running manager.
	ErrAlreadyRunning = errors.New("session manager already running")

	// ErrNoSession reports that the identity provider has no open session,
	// so there is nothing to manage.
	ErrNoSession = errors.New("no active session")
)

// State is the manager lifecycle state.
type State uint8

// Manager states. Expired is transitional: after cleanup completes the
// manager settles back in Stopped and can be started again.
const (
	StateStopped State = iota
	StateRunning
	StateExpired
)

// Config tunes the inactivity machinery.
type Config struct {
	InactivityTimeout time.Duration
	CheckInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.CheckInterval <= 0 {
		c.CheckInterval = DefaultCheckInterval
	}
	return c
}

// Deps are the platform capabilities the manager runs on. Auth, Storage,
// Scheduler, and Activity are required; Broadcast is optional (disables
// concurrent-tab detection when nil); a nil Logger and Now default to
// no-op and time.Now.
type Deps struct {
	Auth      AuthProvider
	Storage   Storage
	Scheduler Scheduler
	Activity  ActivityMonitor
	Broadcast Broadcaster
	Logger    *zap.Logger
	Now       Clock
}

// Manager tracks one authenticated session in one local context and
// invalidates it on inactivity. Safe for concurrent use.
type Manager struct {
	cfg  Config
	deps Deps

	mu             sync.Mutex
	state          State
	meta           Metadata
	onExpired      func()
	expiredFired   bool
	onConcurrent   func(deviceID string)
	warnedDevices  map[string]struct{}
	removeActivity func()
	cancelCheck    func()
	removeListen   func()
}

// NewManager creates a stopped manager.
func NewManager(cfg Config, deps Deps) *Manager {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Manager{
		cfg:           cfg.withDefaults(),
		deps:          deps,
		warnedDevices: make(map[string]struct{}),
	}
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Metadata returns a copy of the current session metadata. The second
// return is false while the manager is not running.
func (m *Manager) Metadata() (Metadata, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return Metadata{}, false
	}
	return m.meta, true
}

// Start reads the current authentication state, initializes session
// metadata, and begins activity tracking and the periodic inactivity
// check. onExpired is invoked exactly once if the session later expires.
// Returns [ErrNoSession] when the provider has no open session.
func (m *Manager) Start(ctx context.Context, onExpired func()) error {
	m.mu.Lock()
	if m.state != StateStopped {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.mu.Unlock()

	sess, err := m.deps.Auth.GetSession(ctx)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoSession
	}

	userID := sess.UserID
	if userID == "" {
		if sub, err := UserIDFromToken(sess.AccessToken); err == nil {
			userID = sub
		}
	}

	now := m.deps.Now()
	meta := Metadata{
		UserID:       userID,
		SessionID:    TokenPrefix(sess.AccessToken),
		DeviceID:     deviceID(m.deps.Storage),
		LastActivity: now,
		CreatedAt:    now,
	}

	// A reload of the same session resumes the stored timeline rather than
	// restarting the inactivity clock.
	if prev, ok := loadMetadata(m.deps.Storage); ok && prev.SessionID == meta.SessionID {
		if !prev.CreatedAt.IsZero() {
			meta.CreatedAt = prev.CreatedAt
		}
		if !prev.LastActivity.IsZero() && prev.LastActivity.Before(now) {
			meta.LastActivity = prev.LastActivity
		}
	}
	saveMetadata(m.deps.Storage, meta)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateStopped {
		return ErrAlreadyRunning
	}

	m.state = StateRunning
	m.meta = meta
	m.onExpired = onExpired
	m.expiredFired = false

	m.removeActivity = m.deps.Activity.OnActivity(m.touch)
	m.cancelCheck = m.deps.Scheduler.Schedule(m.cfg.CheckInterval, m.checkExpiry)
	if m.deps.Broadcast != nil {
		m.removeListen = m.deps.Broadcast.Listen(m.handleMessage)
	}

	m.deps.Logger.Debug("session manager started",
		zap.String("session_id", meta.SessionID),
		zap.String("device_id", meta.DeviceID),
	)
	return nil
}

// touch records user activity. It runs on the platform's event path, so
// it only takes the short metadata lock and a local storage write, never a
// provider round-trip.
func (m *Manager) touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return
	}
	m.meta.LastActivity = m.deps.Now()
	saveMetadata(m.deps.Storage, m.meta)
}

// checkExpiry runs on the scheduler interval and expires the session once
// inactivity exceeds the configured timeout.
func (m *Manager) checkExpiry() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	idle := m.deps.Now().Sub(m.meta.LastActivity)
	if idle <= m.cfg.InactivityTimeout {
		m.mu.Unlock()
		return
	}

	m.state = StateExpired
	m.teardownLocked()
	clearMetadata(m.deps.Storage)
	callback := m.onExpired
	alreadyFired := m.expiredFired
	m.expiredFired = true
	logger := m.deps.Logger
	m.mu.Unlock()

	logger.Info("session expired from inactivity", zap.Duration("idle", idle))

	// Await the provider sign-out before settling in Stopped so a stale
	// callback can never fire after teardown completes.
	if err := m.deps.Auth.SignOut(context.Background(), SignOutLocal); err != nil {
		logger.Warn("sign-out on expiry failed", zap.Error(err))
	}

	if callback != nil && !alreadyFired {
		callback()
	}

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()
}

// Stop deregisters every interaction listener and cancels the periodic
// check, then clears local metadata. It does not sign the user out: that
// is expiry's job or the caller's explicit choice.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateRunning {
		return nil
	}
	m.state = StateStopped
	m.teardownLocked()
	clearMetadata(m.deps.Storage)
	return ctx.Err()
}

func (m *Manager) teardownLocked() {
	if m.removeActivity != nil {
		m.removeActivity()
		m.removeActivity = nil
	}
	if m.cancelCheck != nil {
		m.cancelCheck()
		m.cancelCheck = nil
	}
	if m.removeListen != nil {
		m.removeListen()
		m.removeListen = nil
	}
}

// InvalidateAllSessions signs the user out everywhere (used after a
// password change) and stops the manager.
func (m *Manager) InvalidateAllSessions(ctx context.Context) error {
	if err := m.deps.Auth.SignOut(ctx, SignOutGlobal); err != nil {
		return err
	}
	return m.Stop(ctx)
}

// DetectConcurrentSessions broadcasts a ping carrying this context's
// device id. Responses from a different device id are reported through
// onConcurrent, once per device. Advisory only: nothing is terminated,
// since sibling tabs of the same user are legitimate.
func (m *Manager) DetectConcurrentSessions(onConcurrent func(deviceID string)) {
	if m.deps.Broadcast == nil {
		return
	}
	m.mu.Lock()
	m.onConcurrent = onConcurrent
	own := m.meta.DeviceID
	if own == "" {
		own = deviceID(m.deps.Storage)
	}
	m.mu.Unlock()

	m.deps.Broadcast.Send(Message{Type: MessagePing, DeviceID: own})
}

// handleMessage answers pings from sibling tabs and reports foreign device
// ids. Duplicate and out-of-order messages are harmless: each foreign
// device is reported at most once. A device only counts as warned when a
// callback actually received it, so answering a sibling's ping before this
// context runs its own detection does not suppress the later report.
func (m *Manager) handleMessage(msg Message) {
	m.mu.Lock()
	own := m.meta.DeviceID
	if own == "" || msg.DeviceID == "" || msg.DeviceID == own {
		m.mu.Unlock()
		return
	}

	var notify func(string)
	if m.onConcurrent != nil {
		if _, warned := m.warnedDevices[msg.DeviceID]; !warned {
			m.warnedDevices[msg.DeviceID] = struct{}{}
			notify = m.onConcurrent
		}
	}
	logger := m.deps.Logger
	m.mu.Unlock()

	if notify != nil {
		logger.Warn("concurrent session detected in another tab",
			zap.String("device_id", msg.DeviceID),
		)
		notify(msg.DeviceID)
	}

	if msg.Type == MessagePing {
		m.deps.Broadcast.Send(Message{Type: MessagePong, DeviceID: own})
	}
}
