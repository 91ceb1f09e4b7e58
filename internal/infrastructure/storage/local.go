package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore persists generated documents under a base directory on the
// local filesystem.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	if strings.TrimSpace(dir) == "" {
		dir = "storage"
	}
	return &LocalStore{dir: dir}
}

// Save writes content at relPath below the base directory, creating
// intermediate directories, and returns the path relative to the base.
func (s *LocalStore) Save(relPath string, content []byte) (string, error) {
	relPath = filepath.Clean(strings.TrimSpace(relPath))
	if relPath == "" || relPath == "." || strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("invalid storage path %q", relPath)
	}

	full := filepath.Join(s.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	return relPath, nil
}

// Read returns the content previously saved at relPath.
func (s *LocalStore) Read(relPath string) ([]byte, error) {
	relPath = filepath.Clean(strings.TrimSpace(relPath))
	if relPath == "" || relPath == "." || strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return nil, fmt.Errorf("invalid storage path %q", relPath)
	}
	return os.ReadFile(filepath.Join(s.dir, relPath))
}
