package upvote

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultDevicePath returns the default device identity path:
// ~/.civicmap/device_id
func DefaultDevicePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".civicmap", "device_id"), nil
}

// DeviceID returns this device's stable anonymous identity, minting and
// persisting one on first use. The id travels with vote requests so the
// server can attribute counter updates without any account. A persist
// failure still returns a usable (session-only) id.
func DeviceID(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return id
	}
	_ = os.WriteFile(path, []byte(id+"\n"), 0o644)
	return id
}
