package internal

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Alphabet for recovery codes: uppercase alphanumerics only, so codes
// survive being read over the phone or typed from paper.
const backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBackupCode returns a recovery code of length characters drawn from
// crypto/rand. Modulo bias is avoided by rejection sampling inside
// rand.Int.
func NewBackupCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)

	max := big.NewInt(int64(len(backupCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(backupCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeBackupCode strips the display formatting (dashes, surrounding
// space) and uppercases user input before comparison.
func NormalizeBackupCode(input string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input), "-", ""))
}
