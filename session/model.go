package session

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Storage keys. The device id lives under its own key so it survives
// metadata resets.
const (
	metadataKey = "securecore_session_metadata"
	deviceIDKey = "securecore_device_id"
)

// Metadata describes one authenticated session in one local context. It is
// owned exclusively by that context: sibling tabs learn about each other
// only through broadcast messages.
type Metadata struct {
	UserID       string    `json:"user_id"`
	SessionID    string    `json:"session_id"`
	DeviceID     string    `json:"device_id"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

func loadMetadata(storage Storage) (Metadata, bool) {
	raw, ok := storage.Get(metadataKey)
	if !ok {
		return Metadata{}, false
	}
	var meta Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return Metadata{}, false
	}
	return meta, true
}

func saveMetadata(storage Storage, meta Metadata) {
	raw, err := json.Marshal(meta)
	if err != nil {
		return
	}
	storage.Set(metadataKey, string(raw))
}

func clearMetadata(storage Storage) {
	storage.Delete(metadataKey)
}

// deviceID returns the stable per-device identifier, generating and
// persisting one on first use.
func deviceID(storage Storage) string {
	if id, ok := storage.Get(deviceIDKey); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	storage.Set(deviceIDKey, id)
	return id
}
