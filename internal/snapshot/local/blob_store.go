// Package local archives snapshots on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Config captures the parameters for the local snapshot store.
type Config struct {
	// BaseDir is the root directory snapshots are written under.
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`
}

// BlobStore writes snapshots below a base directory.
type BlobStore struct {
	baseDir string
}

// New validates that the base directory exists (creating it when absent) and
// is writable before returning a store.
func New(cfg Config) (*BlobStore, error) {
	if strings.TrimSpace(cfg.BaseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}

	info, err := os.Stat(cfg.BaseDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat base directory: %w", err)
		}
		if mkErr := os.MkdirAll(cfg.BaseDir, 0o750); mkErr != nil {
			return nil, fmt.Errorf("create base directory: %w", mkErr)
		}
	} else if !info.IsDir() {
		return nil, fmt.Errorf("base directory path is not a directory")
	}

	testFile := filepath.Join(cfg.BaseDir, ".writable_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return nil, fmt.Errorf("base directory is not writable: %w", err)
	}
	if err := os.Remove(testFile); err != nil {
		return nil, fmt.Errorf("remove writability test file: %w", err)
	}

	return &BlobStore{baseDir: cfg.BaseDir}, nil
}

// PutObject writes the snapshot to a file and returns a file:// URI. Paths
// that would escape the base directory are rejected.
func (s *BlobStore) PutObject(_ context.Context, path string, _ string, r io.Reader) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is required")
	}

	fullPath := filepath.Join(s.baseDir, path)
	cleanBase := filepath.Clean(s.baseDir)
	if !strings.HasPrefix(filepath.Clean(fullPath), cleanBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("create parent directories: %w", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	if err := os.WriteFile(fullPath, body, 0o600); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return fmt.Sprintf("file://%s", fullPath), nil
}
