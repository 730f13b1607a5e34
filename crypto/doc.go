// Package crypto implements the symmetric encryption, hashing, and masking
// primitives that every other securecore component builds on.
//
// Encryption is AES-256-GCM with a per-call random salt and IV. The AES key
// is derived from a process-wide master key via PBKDF2-HMAC-SHA512, so two
// encryptions of the same plaintext never produce the same ciphertext and a
// leaked ciphertext column cannot be attacked with precomputed tables.
//
// The encrypted payload is a single string of four base64 segments joined
// with ':' (salt, IV, GCM tag, ciphertext). Decryption fails closed: a
// malformed payload or tag mismatch returns [ErrDecrypt], never partial
// plaintext.
package crypto
