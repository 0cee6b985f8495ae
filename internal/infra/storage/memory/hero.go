package memory

import (
	"context"
	"sync"

	domainhero "milhouse/internal/domain/hero"
)

type HeroStore struct {
	mu  sync.RWMutex
	cfg *domainhero.Config
}

func NewHeroStore() *HeroStore {
	return &HeroStore{}
}

func (s *HeroStore) Get(ctx context.Context) (domainhero.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return domainhero.Config{}, domainhero.ErrNotFound
	}
	return *s.cfg, nil
}

func (s *HeroStore) Put(ctx context.Context, cfg domainhero.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = &cfg
	return nil
}

var _ domainhero.Store = (*HeroStore)(nil)
