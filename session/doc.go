// Package session runs the client-side session lifecycle: inactivity
// tracking, timeout-driven invalidation, and advisory concurrent-tab
// detection.
//
// The state machine itself is platform-agnostic. Everything environment
// specific (user-interaction events, timers, cross-tab messaging, local
// key-value storage, the identity provider) enters through the small
// capability interfaces in platform.go, so the [Manager] is unit-testable
// without a browser context. In-process implementations of the
// capabilities ship with the package; an embedding host (wasm, desktop
// shell) supplies its own.
//
// Cross-tab coordination is message passing only: tabs compare device ids
// over a broadcast channel and never share mutable state. A concurrent
// session is surfaced as a warning, never terminated automatically, since
// two tabs of the same legitimate user are common.
package session
