package memory

import (
	"context"
	"sync"

	domaincontacts "milhouse/internal/domain/contacts"
)

type ContactRepository struct {
	mu    sync.RWMutex
	items []domaincontacts.Request
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Add(ctx context.Context, req *domaincontacts.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *req)
	return nil
}

// List returns the newest request first.
func (r *ContactRepository) List(ctx context.Context) ([]domaincontacts.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domaincontacts.Request, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

var _ domaincontacts.Repository = (*ContactRepository)(nil)
