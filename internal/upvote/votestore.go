// Package upvote implements the one-per-device upvote flow: a persisted
// device-local set of voted comment ids and an optimistic counter update
// with rollback.
package upvote

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// VoteStore is the per-device set of comment ids this device has upvoted.
// It only guards against repeat votes from the same device; it is not a
// server-side uniqueness constraint.
type VoteStore interface {
	Has(id int64) bool
	Add(id int64)
	Remove(id int64)
}

// DefaultStorePath returns the default vote store path:
// ~/.civicmap/upvoted.json
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".civicmap", "upvoted.json"), nil
}

// FileStore persists the voted set as a JSON array of id strings.
// Reads tolerate an absent or corrupt file (treated as empty); write
// failures are swallowed, so a full or read-only disk degrades the repeat
// guard instead of breaking voting.
type FileStore struct {
	path string

	mu  sync.Mutex
	ids map[int64]bool
}

// NewFileStore loads (or initializes) a vote store at path.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path, ids: make(map[int64]bool)}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return s
	}
	for _, v := range raw {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.ids[id] = true
		}
	}
	return s
}

// Has reports whether this device already upvoted the comment.
func (s *FileStore) Has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// Add records an upvote and persists the set.
func (s *FileStore) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = true
	s.save()
}

// Remove forgets an upvote (rollback path) and persists the set.
func (s *FileStore) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
	s.save()
}

// save writes the set to disk. Callers hold the lock. Failures are
// intentionally ignored.
func (s *FileStore) save() {
	raw := make([]string, 0, len(s.ids))
	for id := range s.ids {
		raw = append(raw, strconv.FormatInt(id, 10))
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o644)
}
