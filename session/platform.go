package session

import (
	"context"
	"time"
)

// Clock supplies the current time; tests inject a fake.
type Clock func() time.Time

// Scheduler runs fn on a fixed interval until the returned cancel function
// is called. Cancel must be idempotent and must guarantee fn is not
// running and will not run again after it returns.
type Scheduler interface {
	Schedule(interval time.Duration, fn func()) (cancel func())
}

// ActivityMonitor invokes fn on every user-interaction event (pointer
// movement, key press, scroll, touch, click). fn must be cheap: it runs
// passively on the event path and must never block the triggering event.
// The returned remove function deregisters the listener.
type ActivityMonitor interface {
	OnActivity(fn func()) (remove func())
}

// Message types exchanged on the inter-tab channel.
const (
	MessagePing = "session_ping"
	MessagePong = "session_pong"
)

// Message is one inter-tab broadcast frame.
type Message struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
}

// Broadcaster delivers messages to every other listener sharing the
// channel (never back to the sender). Handlers must tolerate duplicate and
// out-of-order messages.
type Broadcaster interface {
	Send(msg Message)
	Listen(fn func(Message)) (remove func())
}

// Storage is a small persistent key-value store scoped to the local
// context (localStorage in a browser, a state file elsewhere). It survives
// restarts so the per-device identifier stays stable.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// SignOutScope selects which sessions a sign-out affects.
type SignOutScope string

// Sign-out scopes.
const (
	SignOutLocal  SignOutScope = "local"
	SignOutGlobal SignOutScope = "global"
)

// Session is the authenticated state returned by the identity provider.
// UserID may be empty when the provider only hands back a token; the
// manager then falls back to the token's subject claim.
type Session struct {
	UserID      string
	AccessToken string
}

// AuthProvider is the opaque remote identity service. GetSession returns
// (nil, nil) when no session is open. SignOut is authentication-critical
// and fails closed: an error means the session must still be treated as
// live by the caller.
type AuthProvider interface {
	GetSession(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context, scope SignOutScope) error
}
