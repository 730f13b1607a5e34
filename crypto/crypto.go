package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keyLength  = 32 // AES-256
	ivLength   = 16
	saltLength = 64

	pbkdf2Iterations = 100_000

	// MinMasterKeyLength is the minimum accepted master key length in bytes.
	MinMasterKeyLength = 32

	payloadSegments = 4
	maskRune        = '*'
)

var (
	// ErrMasterKeyInvalid reports a missing or too-short master key. This is
	// a process-level misconfiguration, not a per-call condition: it is
	// surfaced on first use and will repeat for every call until fixed.
	ErrMasterKeyInvalid = errors.New("master key must be at least 32 characters")

	// ErrEncrypt reports a failure while producing an encrypted payload.
	ErrEncrypt = errors.New("failed to encrypt data")

	// ErrDecrypt reports a malformed payload, a GCM tag mismatch, or a wrong
	// key. Retrying with the same inputs cannot succeed.
	ErrDecrypt = errors.New("failed to decrypt data")
)

// Cipher encrypts and decrypts sensitive values under a master key.
//
// The master key is validated lazily on first use rather than at
// construction, so a Cipher can be wired during startup before
// configuration is fully loaded.
type Cipher struct {
	masterKey string
}

// NewCipher returns a Cipher bound to masterKey. The key is not validated
// here; Encrypt and Decrypt return [ErrMasterKeyInvalid] when it is absent
// or shorter than [MinMasterKeyLength].
func NewCipher(masterKey string) *Cipher {
	return &Cipher{masterKey: masterKey}
}

func (c *Cipher) checkKey() error {
	if c == nil || len(c.masterKey) < MinMasterKeyLength {
		return ErrMasterKeyInvalid
	}
	return nil
}

func deriveKey(masterKey string, salt []byte) []byte {
	return pbkdf2.Key([]byte(masterKey), salt, pbkdf2Iterations, keyLength, sha512.New)
}

// Encrypt seals plaintext with AES-256-GCM under a key derived from the
// master key and a fresh random salt. The returned payload is
// "salt:iv:tag:ciphertext" with each segment base64-encoded.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if err := c.checkKey(); err != nil {
		return "", err
	}

	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	gcm, err := newGCM(deriveKey(c.masterKey, salt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	// Seal appends the tag after the ciphertext; the wire format carries
	// them as separate segments.
	tagSize := gcm.Overhead()
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	enc := base64.StdEncoding
	return enc.EncodeToString(salt) + ":" +
		enc.EncodeToString(iv) + ":" +
		enc.EncodeToString(tag) + ":" +
		enc.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. It re-derives the key from the embedded salt
// and fails with [ErrDecrypt] on any malformed segment or tag mismatch.
func (c *Cipher) Decrypt(payload string) (string, error) {
	if err := c.checkKey(); err != nil {
		return "", err
	}

	parts := strings.Split(payload, ":")
	if len(parts) != payloadSegments {
		return "", fmt.Errorf("%w: invalid payload format", ErrDecrypt)
	}

	enc := base64.StdEncoding
	salt, err := enc.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	iv, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	tag, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	ciphertext, err := enc.DecodeString(parts[3])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	gcm, err := newGCM(deriveKey(c.masterKey, salt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(iv) != gcm.NonceSize() || len(tag) != gcm.Overhead() {
		return "", fmt.Errorf("%w: invalid payload format", ErrDecrypt)
	}

	plaintext, err := gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, ivLength)
}

// Hash returns the hex-encoded SHA-256 digest of data. It is deterministic
// and intended for equality checks (password-history comparisons and the
// like), never for password storage.
func Hash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// GenerateToken returns a cryptographically random token of length bytes,
// hex-encoded (so the string is twice as long as length).
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		length = 32
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// MaskSensitiveData obscures the interior of data for log output, keeping
// the first and last showChars characters. Values too short to keep any
// context are masked entirely. Not a storage format: masking is one-way.
func MaskSensitiveData(data string, showChars int) string {
	if showChars < 0 {
		showChars = 0
	}
	runes := []rune(data)
	if len(runes) <= showChars*2 {
		return strings.Repeat(string(maskRune), len(runes))
	}
	var b strings.Builder
	b.Grow(len(runes))
	b.WriteString(string(runes[:showChars]))
	b.WriteString(strings.Repeat(string(maskRune), len(runes)-showChars*2))
	b.WriteString(string(runes[len(runes)-showChars:]))
	return b.String()
}
