package securecore

import (
	"errors"

	"github.com/conta2go/securecore/crypto"
	"github.com/conta2go/securecore/internal/audit"
)

var (
	// ErrMasterKeyInvalid reports a missing or too-short encryption master
	// key. Surfaced lazily on the first crypto operation, not at Build.
	ErrMasterKeyInvalid = crypto.ErrMasterKeyInvalid

	// ErrDecrypt reports a malformed encrypted payload, a tag mismatch, or
	// a wrong master key.
	ErrDecrypt = crypto.ErrDecrypt

	// ErrAuditStoreUnavailable reports that the audit backend rejected a
	// read. Writes never surface this: persistence failures on the write
	// path are logged and swallowed.
	ErrAuditStoreUnavailable = audit.ErrStoreUnavailable

	// ErrUnknownEntity reports an entity type with no registered
	// sensitive-field list.
	ErrUnknownEntity = errors.New("unknown entity type")
)
