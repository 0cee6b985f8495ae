package memory

import (
	"context"
	"sync"

	"milhouse/internal/app/middleware"
)

// IdempotencyStore mirrors the mongo store: the first result saved for a key wins.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]middleware.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[string]middleware.IdempotencyRecord{}}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	return rec, ok, nil
}

func (s *IdempotencyStore) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.Key]; !exists {
		s.records[rec.Key] = rec
	}
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
