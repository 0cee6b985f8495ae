package memory

import (
	"context"
	"sync"

	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/events"
)

// PropertyRepository keeps properties in insertion order.
type PropertyRepository struct {
	mu    sync.RWMutex
	order []domainproperties.PropertyID
	items map[domainproperties.PropertyID]domainproperties.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperties.PropertyID]domainproperties.Property)}
}

func (r *PropertyRepository) List(ctx context.Context) ([]domainproperties.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domainproperties.Property, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneProperty(r.items[id]))
	}
	return out, nil
}

// ByID returns a copy of the property or domainproperties.ErrNotFound.
func (r *PropertyRepository) ByID(ctx context.Context, id domainproperties.PropertyID) (*domainproperties.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperties.ErrNotFound
	}
	cp := cloneProperty(p)
	return &cp, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domainproperties.Property) error {
	if p == nil || p.ID == "" {
		return domainproperties.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.items[p.ID] = cloneProperty(*p)
	return nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *domainproperties.Property) error {
	if p == nil {
		return domainproperties.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return domainproperties.ErrNotFound
	}
	r.items[p.ID] = cloneProperty(*p)
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id domainproperties.PropertyID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainproperties.ErrNotFound
	}
	delete(r.items, id)
	for i, candidate := range r.order {
		if candidate == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// cloneProperty copies the slices so callers cannot mutate stored state. Pending
// events are not carried over.
func cloneProperty(p domainproperties.Property) domainproperties.Property {
	out := p
	out.EventRecorder = events.EventRecorder{}
	out.Features = append([]string(nil), p.Features...)
	out.Amenities = append([]string(nil), p.Amenities...)
	out.Images = append([]string(nil), p.Images...)
	out.Units = append([]domainproperties.Unit(nil), p.Units...)
	out.Related = append([]domainproperties.Related(nil), p.Related...)
	return out
}

var _ domainproperties.Repository = (*PropertyRepository)(nil)
