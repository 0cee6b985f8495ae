package properties

import (
	"context"
	"errors"
	"strings"

	"milhouse/internal/app/dto"
	"milhouse/internal/app/policies"
	"milhouse/internal/app/queries"
	"milhouse/internal/domain/catalog"
	domainproperties "milhouse/internal/domain/properties"
)

const (
	listPropertiesKey = "properties.list"
	getPropertyKey    = "properties.get"
	searchCatalogKey  = "properties.catalog"
	mapMarkersKey     = "properties.markers"
)

var errSnapshotMissing = errors.New("properties: snapshot is not configured")

// ListPropertiesQuery returns the whole collection.
type ListPropertiesQuery struct{}

func (ListPropertiesQuery) Key() string { return listPropertiesKey }

type ListPropertiesHandler struct {
	Snapshot policies.PropertySnapshot
}

func (h *ListPropertiesHandler) Handle(ctx context.Context, _ ListPropertiesQuery) ([]dto.Property, error) {
	if h.Snapshot == nil {
		return nil, errSnapshotMissing
	}
	all, err := h.Snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapProperties(all), nil
}

// GetPropertyQuery reads one property straight from the repository.
type GetPropertyQuery struct {
	ID string
}

func (GetPropertyQuery) Key() string { return getPropertyKey }

type GetPropertyHandler struct {
	Repo domainproperties.Repository
}

func (h *GetPropertyHandler) Handle(ctx context.Context, q GetPropertyQuery) (dto.Property, error) {
	id, err := ParseID(q.ID)
	if err != nil {
		return dto.Property{}, err
	}
	p, err := h.Repo.ByID(ctx, id)
	if err != nil {
		return dto.Property{}, err
	}
	return dto.MapProperty(*p), nil
}

// SearchCatalogQuery runs the listing query engine over the current snapshot.
type SearchCatalogQuery struct {
	State catalog.FilterState
}

func (SearchCatalogQuery) Key() string { return searchCatalogKey }

type SearchCatalogHandler struct {
	Snapshot policies.PropertySnapshot
}

func (h *SearchCatalogHandler) Handle(ctx context.Context, q SearchCatalogQuery) (dto.CatalogPage, error) {
	if h.Snapshot == nil {
		return dto.CatalogPage{}, errSnapshotMissing
	}
	all, err := h.Snapshot.Load(ctx)
	if err != nil {
		return dto.CatalogPage{}, err
	}
	return dto.MapCatalog(catalog.Query(all, q.State), q.State), nil
}

// MapMarkersQuery lists every property that can be placed on the map.
type MapMarkersQuery struct{}

func (MapMarkersQuery) Key() string { return mapMarkersKey }

type MapMarkersHandler struct {
	Snapshot policies.PropertySnapshot
}

func (h *MapMarkersHandler) Handle(ctx context.Context, _ MapMarkersQuery) ([]dto.MapMarker, error) {
	if h.Snapshot == nil {
		return nil, errSnapshotMissing
	}
	all, err := h.Snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapMarkers(all), nil
}

// ParseID accepts only 24-hex object ids, as stored by the repositories.
func ParseID(raw string) (domainproperties.PropertyID, error) {
	raw = strings.TrimSpace(raw)
	if !domainproperties.IsObjectIDHex(raw) {
		return "", domainproperties.ErrInvalidID
	}
	return domainproperties.PropertyID(strings.ToLower(raw)), nil
}

var (
	_ queries.Handler[ListPropertiesQuery, []dto.Property] = (*ListPropertiesHandler)(nil)
	_ queries.Handler[GetPropertyQuery, dto.Property]      = (*GetPropertyHandler)(nil)
	_ queries.Handler[SearchCatalogQuery, dto.CatalogPage] = (*SearchCatalogHandler)(nil)
	_ queries.Handler[MapMarkersQuery, []dto.MapMarker]    = (*MapMarkersHandler)(nil)
)
