package securecore

import (
	"fmt"

	"github.com/conta2go/securecore/crypto"
)

// Encrypt encrypts a single sensitive value under the master key. The
// payload is self-contained: salt, IV, tag, and ciphertext, each base64.
func (e *Engine) Encrypt(plaintext string) (string, error) {
	return e.cipher.Encrypt(plaintext)
}

// Decrypt reverses Encrypt. Any malformed payload, tag mismatch, or wrong
// key returns ErrDecrypt; plaintext is never partially returned.
func (e *Engine) Decrypt(payload string) (string, error) {
	return e.cipher.Decrypt(payload)
}

// Hash returns the SHA-256 hex digest of data, for deterministic lookup
// columns over encrypted fields.
func (e *Engine) Hash(data string) string {
	return crypto.Hash(data)
}

// EncryptEntityFields encrypts the registered sensitive fields of an
// entity record in place of their plaintext values. Unregistered fields
// pass through. Any single failure aborts the whole record so a partially
// encrypted row can never be persisted.
func (e *Engine) EncryptEntityFields(entity string, record map[string]string) (map[string]string, error) {
	fields, ok := e.config.Crypto.EntityFields[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	out, err := e.codec.EncryptFields(record, fields)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricFieldEncrypted)
	return out, nil
}

// DecryptEntityFields decrypts the registered sensitive fields of an
// entity record. Failures are isolated per field: a field that cannot be
// decrypted comes back empty and is named in failed, while its siblings
// decrypt normally.
func (e *Engine) DecryptEntityFields(entity string, record map[string]string) (map[string]string, []string, error) {
	fields, ok := e.config.Crypto.EntityFields[entity]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}

	out, failed := e.codec.DecryptFields(record, fields)
	for range failed {
		e.metrics.Inc(MetricFieldDecryptFailed)
	}

	return out, failed, nil
}

// GenerateToken returns a secure random hex token of the requested byte
// length, for password-reset and verification links.
func (e *Engine) GenerateToken(length int) (string, error) {
	return crypto.GenerateToken(length)
}
