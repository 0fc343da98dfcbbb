package memory

import (
	"context"
	"sync"

	apperrors "image-service/pkg/errors"
)

// Store is an in-memory blob store used in tests and local experiments.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	writes map[string]int
}

func New() *Store {
	return &Store{
		blobs:  make(map[string][]byte),
		writes: make(map[string]int),
	}
}

func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok, nil
}

func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[key]
	if !ok {
		return nil, apperrors.NotFound(key)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Write(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[key] = stored
	s.writes[key]++
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

// WriteCount reports how many times a key has been written. Tests use it to
// assert cache idempotence.
func (s *Store) WriteCount(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes[key]
}
