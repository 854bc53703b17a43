package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore writes generated documents (receipts, reports) under a
// single root directory. Paths handed out and stored in the database
// are always relative to that root; overwriting an existing path is
// fine because documents regenerate idempotently from the same inputs.
type FileStore struct {
	Root string
}

func NewFileStore(root string) *FileStore {
	return &FileStore{Root: root}
}

// Put writes data at relPath under the store root, creating parent
// directories as needed, and returns the absolute path.
func (f *FileStore) Put(relPath string, data []byte) (string, error) {
	dest := filepath.Join(f.Root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	return dest, nil
}

// Abs resolves a stored relative path back to its absolute location.
func (f *FileStore) Abs(relPath string) string {
	return filepath.Join(f.Root, filepath.FromSlash(relPath))
}
