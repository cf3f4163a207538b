package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiskStore writes snapshots as files in a directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a store rooted at dir. The directory is created on
// first write.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Put writes name.html atomically.
func (s *DiskStore) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: create dir: %w", err)
	}

	path := filepath.Join(s.dir, name+Ext)
	tmp, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return "", fmt.Errorf("snapshot: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("snapshot: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("snapshot: rename: %w", err)
	}
	return path, nil
}

// Get reads name.html.
func (s *DiskStore) Get(_ context.Context, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name+Ext))
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}
	return data, nil
}

// List returns the names of the .html files in the directory.
func (s *DiskStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), Ext))
	}
	sort.Strings(names)
	return names, nil
}
