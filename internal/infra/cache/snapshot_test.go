package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/infra/storage/memory"
)

type countingRepo struct {
	*memory.PropertyRepository
	lists int
	err   error
}

func (r *countingRepo) List(ctx context.Context) ([]domainproperties.Property, error) {
	r.lists++
	if r.err != nil {
		return nil, r.err
	}
	return r.PropertyRepository.List(ctx)
}

func seeded(t *testing.T) *countingRepo {
	t.Helper()
	repo := &countingRepo{PropertyRepository: memory.NewPropertyRepository()}
	require.NoError(t, repo.Create(context.Background(), &domainproperties.Property{ID: "65f0c0ffee00000000000001", Title: "Casa"}))
	return repo
}

func TestSnapshot_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	repo := seeded(t)
	snap := NewSnapshot(repo, time.Minute)

	first, err := snap.Load(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	_, err = snap.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)

	require.NoError(t, repo.Create(ctx, &domainproperties.Property{ID: "65f0c0ffee00000000000002", Title: "Villa"}))
	stale, _ := snap.Load(ctx)
	assert.Len(t, stale, 1)

	snap.Invalidate()
	fresh, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
	assert.Equal(t, 2, repo.lists)
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	snap := NewSnapshot(seeded(t), time.Minute)
	a, _ := snap.Load(context.Background())
	a[0].Title = "changed"
	b, _ := snap.Load(context.Background())
	assert.Equal(t, "Casa", b[0].Title)
}

func TestSnapshot_ZeroTTLPassesThrough(t *testing.T) {
	repo := seeded(t)
	snap := NewSnapshot(repo, 0)
	_, _ = snap.Load(context.Background())
	_, _ = snap.Load(context.Background())
	assert.Equal(t, 2, repo.lists)
}

func TestSnapshot_ErrorsAreNotCached(t *testing.T) {
	repo := seeded(t)
	repo.err = errors.New("mongo down")
	snap := NewSnapshot(repo, time.Minute)
	_, err := snap.Load(context.Background())
	require.Error(t, err)

	repo.err = nil
	all, err := snap.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// gatedRepo reads the collection, then parks the first List until release is closed.
type gatedRepo struct {
	*memory.PropertyRepository
	listing chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedRepo) List(ctx context.Context) ([]domainproperties.Property, error) {
	all, err := r.PropertyRepository.List(ctx)
	first := false
	r.once.Do(func() { first = true })
	if first {
		close(r.listing)
		<-r.release
	}
	return all, err
}

func TestSnapshot_WriteDuringReloadIsNotLost(t *testing.T) {
	ctx := context.Background()
	repo := &gatedRepo{
		PropertyRepository: memory.NewPropertyRepository(),
		listing:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	snap := NewSnapshot(repo, time.Minute)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = snap.Load(ctx)
	}()
	<-repo.listing

	require.NoError(t, repo.Create(ctx, &domainproperties.Property{ID: "65f0c0ffee00000000000003", Title: "Penthouse"}))
	snap.Invalidate()
	close(repo.release)
	<-done

	all, err := snap.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
