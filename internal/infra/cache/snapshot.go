package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"milhouse/internal/app/policies"
	domainproperties "milhouse/internal/domain/properties"
)

const snapshotKey = "properties"

// Snapshot caches the full property collection for ttl. Mutations call
// Invalidate so readers never wait out a stale entry after their own write.
type Snapshot struct {
	repo  domainproperties.Repository
	ttl   time.Duration
	cache *ttlcache.Cache[string, []domainproperties.Property]
	mu    sync.Mutex
	// gen moves on every Invalidate; a reload that spans one is not cached.
	gen atomic.Uint64
}

// NewSnapshot returns a cache over repo. A non-positive ttl disables caching.
func NewSnapshot(repo domainproperties.Repository, ttl time.Duration) *Snapshot {
	return &Snapshot{
		repo: repo,
		ttl:  ttl,
		cache: ttlcache.New(
			ttlcache.WithTTL[string, []domainproperties.Property](ttl),
			ttlcache.WithDisableTouchOnHit[string, []domainproperties.Property](),
		),
	}
}

func (s *Snapshot) Load(ctx context.Context) ([]domainproperties.Property, error) {
	if s.ttl <= 0 {
		return s.repo.List(ctx)
	}
	if item := s.cache.Get(snapshotKey); item != nil {
		return cloneList(item.Value()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if item := s.cache.Get(snapshotKey); item != nil {
		return cloneList(item.Value()), nil
	}
	gen := s.gen.Load()
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.gen.Load() == gen {
		s.cache.Set(snapshotKey, all, ttlcache.DefaultTTL)
	}
	return cloneList(all), nil
}

func (s *Snapshot) Invalidate() {
	s.gen.Add(1)
	s.cache.Delete(snapshotKey)
}

// Start runs the expiry loop until Stop; optional since Get checks expiry itself.
func (s *Snapshot) Start() {
	s.cache.Start()
}

func (s *Snapshot) Stop() {
	s.cache.Stop()
}

func cloneList(in []domainproperties.Property) []domainproperties.Property {
	return append([]domainproperties.Property(nil), in...)
}

var _ policies.PropertySnapshot = (*Snapshot)(nil)
