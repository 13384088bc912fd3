package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNotFound = errors.New("store: snapshot not found")
)

// DiskStore persists snapshot blobs as flat files under a base directory.
// Writes go through a temp file and rename so readers never observe a partial
// snapshot.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the base directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("snapshot dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Read returns the stored bytes for name, or ErrNotFound.
func (s *DiskStore) Read(name string) ([]byte, error) {
	b, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return b, nil
}

// Write stores bytes for name atomically.
func (s *DiskStore) Write(name string, data []byte) error {
	target := s.path(name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit snapshot %s: %w", name, err)
	}
	return nil
}

func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
