// Package securecore is the security core of the conta2go accounting
// platform: field-level encryption for sensitive company and client data,
// login rate limiting, password policy and breach checking, an immutable
// audit trail, and backup-code management for MFA recovery.
//
// The package is a library, not a service. Request handlers and the
// persistence layer are external collaborators: they build an Engine once
// at startup and call into it. Construction goes through the Builder:
//
//	engine, err := securecore.New().
//		WithMasterKey(os.Getenv("ENCRYPTION_MASTER_KEY")).
//		WithRedis(client).
//		WithLogger(logger).
//		Build()
//
// Pluggable backends (rate-limit store, audit store, audit sink, alert
// sink) default to in-process implementations so the zero configuration
// works in a single replica; Redis-backed stores are wired automatically
// when a client is provided.
//
// Session lifecycle management lives in the session subpackage, low-level
// encryption primitives in crypto, and password rules in password.
package securecore
