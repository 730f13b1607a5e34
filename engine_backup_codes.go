package securecore

import (
	"encoding/json"
	"fmt"

	"github.com/conta2go/securecore/internal"
)

// GenerateBackupCodes returns a fresh batch of recovery codes, uppercase
// alphanumeric, drawn from crypto/rand. The batch is plaintext: pair it
// with EncryptBackupCodes before anything touches persistent storage.
func (e *Engine) GenerateBackupCodes() ([]string, error) {
	codes := make([]string, 0, e.config.BackupCodes.Count)
	for i := 0; i < e.config.BackupCodes.Count; i++ {
		code, err := internal.NewBackupCode(e.config.BackupCodes.Length)
		if err != nil {
			return nil, fmt.Errorf("generate backup code: %w", err)
		}
		codes = append(codes, code)
	}

	e.metrics.Inc(MetricBackupCodeGenerated)
	return codes, nil
}

// FormatBackupCode renders a code for display, split into dash-separated
// groups of four (ABCD1234 -> ABCD-1234). Codes whose length is not a
// multiple of four keep a shorter final group.
func FormatBackupCode(code string) string {
	const group = 4
	if len(code) <= group {
		return code
	}

	out := make([]byte, 0, len(code)+len(code)/group)
	for i := 0; i < len(code); i += group {
		if i > 0 {
			out = append(out, '-')
		}
		end := i + group
		if end > len(code) {
			end = len(code)
		}
		out = append(out, code[i:end]...)
	}

	return string(out)
}

// EncryptBackupCodes seals a batch of plaintext codes into a single
// encrypted blob for storage alongside the user's MFA settings.
func (e *Engine) EncryptBackupCodes(codes []string) (string, error) {
	batch := make([]BackupCode, len(codes))
	for i, code := range codes {
		batch[i] = BackupCode{Code: internal.NormalizeBackupCode(code)}
	}

	raw, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("encode backup codes: %w", err)
	}

	return e.cipher.Encrypt(string(raw))
}

// VerifyBackupCode checks input against the encrypted batch in blob. The
// function is pure with respect to storage: on a match it returns a new
// blob with that code marked used, and the caller decides when to commit
// it. Dashes, spaces, and case in the input are ignored. An unreadable
// blob or a spent code is simply not valid; nothing is mutated.
func (e *Engine) VerifyBackupCode(blob, input string) BackupCodeVerification {
	batch, err := e.decodeBackupCodes(blob)
	if err != nil {
		e.metrics.Inc(MetricBackupCodeFailed)
		return BackupCodeVerification{}
	}

	normalized := internal.NormalizeBackupCode(input)

	matched := -1
	remaining := 0
	for i, code := range batch {
		if code.Used {
			continue
		}
		if matched < 0 && code.Code == normalized {
			matched = i
			continue
		}
		remaining++
	}

	if matched < 0 {
		e.metrics.Inc(MetricBackupCodeFailed)
		return BackupCodeVerification{}
	}

	usedAt := e.now().UTC()
	batch[matched].Used = true
	batch[matched].UsedAt = &usedAt

	raw, err := json.Marshal(batch)
	if err != nil {
		e.metrics.Inc(MetricBackupCodeFailed)
		return BackupCodeVerification{}
	}

	updated, err := e.cipher.Encrypt(string(raw))
	if err != nil {
		e.metrics.Inc(MetricBackupCodeFailed)
		return BackupCodeVerification{}
	}

	e.metrics.Inc(MetricBackupCodeUsed)
	return BackupCodeVerification{
		Valid:       true,
		UpdatedBlob: updated,
		Remaining:   remaining,
	}
}

// RemainingBackupCodes reports how many codes in blob are still unused.
func (e *Engine) RemainingBackupCodes(blob string) (int, error) {
	batch, err := e.decodeBackupCodes(blob)
	if err != nil {
		return 0, err
	}

	remaining := 0
	for _, code := range batch {
		if !code.Used {
			remaining++
		}
	}

	return remaining, nil
}

func (e *Engine) decodeBackupCodes(blob string) ([]BackupCode, error) {
	plaintext, err := e.cipher.Decrypt(blob)
	if err != nil {
		return nil, err
	}

	var batch []BackupCode
	if err := json.Unmarshal([]byte(plaintext), &batch); err != nil {
		return nil, fmt.Errorf("decode backup codes: %w", err)
	}

	return batch, nil
}
