// Package limiters implements the sliding-window brute-force guard used by
// the engine for login attempts.
//
// Counting is per caller-supplied identifier (typically a normalized email)
// rather than per IP: distributed low-volume attacks against one account
// still accumulate, at the cost of some precision for shared identifiers.
// State lives in an injectable [Store]; the bundled memory store is the
// default and loses all counters on restart, which is an accepted trade-off.
package limiters
