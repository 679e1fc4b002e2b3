// Package memory stores snapshots in-memory for development and tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// BlobStore keeps snapshot content in a map and returns pseudo URIs.
type BlobStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewBlobStore creates an empty in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{data: make(map[string][]byte)}
}

// PutObject copies the content and returns a memory:// URI.
func (s *BlobStore) PutObject(_ context.Context, path string, _ string, r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[path] = append([]byte(nil), body...)
	return fmt.Sprintf("memory://%s", path), nil
}

// Get returns the stored content for a path, for test assertions.
func (s *BlobStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.data[path]
	return body, ok
}
