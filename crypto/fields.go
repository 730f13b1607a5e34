package crypto

import (
	"go.uber.org/zap"
)

// Per-entity sensitive field lists. These are explicit, reviewed
// enumerations rather than name heuristics: a field is protected because it
// appears here, not because its name looks sensitive.
var (
	// CompanyFields are the encrypted-at-rest columns of a company record.
	CompanyFields = []string{"legalName", "taxId", "address", "phone", "bankAccount"}

	// ClientFields are the encrypted-at-rest columns of a client record.
	ClientFields = []string{"fullName", "taxId", "address", "phone", "bankAccountNumber", "notes"}
)

// Codec encrypts and decrypts record fields one by one so that persistence
// layers can store structured records with only the designated columns
// protected.
type Codec struct {
	cipher *Cipher
	logger *zap.Logger
}

// NewCodec returns a Codec backed by cipher. A nil logger disables the
// per-field decrypt warnings.
func NewCodec(cipher *Cipher, logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{cipher: cipher, logger: logger}
}

// EncryptFields returns a copy of record with every field named in
// sensitive replaced by its encrypted payload. Fields absent from the
// record are skipped; any encryption failure aborts the whole operation,
// since writing a half-protected record defeats the point.
func (c *Codec) EncryptFields(record map[string]string, sensitive []string) (map[string]string, error) {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	for _, name := range sensitive {
		value, ok := record[name]
		if !ok {
			continue
		}
		enc, err := c.cipher.Encrypt(value)
		if err != nil {
			return nil, err
		}
		out[name] = enc
	}
	return out, nil
}

// DecryptFields reverses EncryptFields. Decryption failures are isolated
// per field: a field that cannot be decrypted resolves to the empty string
// and is reported in the failed list, while sibling fields proceed
// normally. Callers render failed fields as unavailable rather than
// rejecting the whole record.
func (c *Codec) DecryptFields(record map[string]string, sensitive []string) (map[string]string, []string) {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}

	var failed []string
	for _, name := range sensitive {
		value, ok := record[name]
		if !ok || value == "" {
			continue
		}
		plain, err := c.cipher.Decrypt(value)
		if err != nil {
			c.logger.Warn("field decryption failed",
				zap.String("field", name),
				zap.Error(err),
			)
			out[name] = ""
			failed = append(failed, name)
			continue
		}
		out[name] = plain
	}
	return out, failed
}
