// Package kv is the persistent storage boundary: named string-keyed
// entries that can be read, written and removed.
package kv

import (
	"context"
	"sync"
)

// Store reads return (value, true) when present. Write and remove may fail;
// callers decide whether a failure matters.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore keeps entries in process memory. Used for tests and for the
// "memory" storage backend.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]string)}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Key namespaces a storage key to one session.
func Key(name, sessionID string) string {
	if sessionID == "" {
		return name
	}
	return name + ":" + sessionID
}
