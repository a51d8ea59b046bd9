package blob

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps blobs in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[key] = append([]byte(nil), data...)
	return int64(len(data)), nil
}

func (s *MemoryStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStore) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// Keys returns the stored keys. Used by tests to inspect writes.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	return keys
}

func (s *MemoryStore) Close() error { return nil }
