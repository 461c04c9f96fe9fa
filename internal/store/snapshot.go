package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists JSON snapshots under a directory, one file
// per key. An empty dir disables persistence entirely: saves succeed
// as no-ops and loads report ErrNotFound, so hosts can run purely
// in-memory.
type SnapshotStore struct {
	dir string
	mu  sync.Mutex
}

func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

func (s *SnapshotStore) Enabled() bool {
	return s.dir != ""
}

func (s *SnapshotStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", errors.New("invalid snapshot key")
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Save writes the value atomically: marshal, write to a temp file,
// rename over the target. A crash mid-save never leaves a truncated
// snapshot behind.
func (s *SnapshotStore) Save(key string, v any) error {
	if s.dir == "" {
		return nil
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a snapshot into v. Missing and malformed files both
// report ErrNotFound so callers fall back to the default state
// instead of failing startup over damaged local data.
func (s *SnapshotStore) Load(key string, v any) error {
	if s.dir == "" {
		return ErrNotFound
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	data, err := os.ReadFile(path)
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return ErrNotFound
	}
	return nil
}

// Delete removes a stored snapshot. Missing keys are a no-op.
func (s *SnapshotStore) Delete(key string) error {
	if s.dir == "" {
		return nil
	}
	path, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
