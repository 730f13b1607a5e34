// Package internal contains helper utilities that are intentionally private
// to securecore, including secure recovery-code generation.
//
// # Sub-packages
//
//   - audit: audit record model, stores, sinks, and async dispatch
//   - limiters: sliding-window brute-force guard with pluggable stores
//
// # What this package must NOT do
//
//   - Export types that appear in the public securecore API.
//   - Be imported by any package outside the securecore module.
package internal
