package properties

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/app/dto"
	"milhouse/internal/app/outbox"
	"milhouse/internal/domain/catalog"
	domainproperties "milhouse/internal/domain/properties"
	"milhouse/internal/infra/storage/memory"
)

type recordingOutbox struct {
	records []outbox.EventRecord
}

func (o *recordingOutbox) Add(_ context.Context, rec outbox.EventRecord) error {
	o.records = append(o.records, rec)
	return nil
}

func (o *recordingOutbox) Flush(context.Context) error { return nil }

func (o *recordingOutbox) names() []string {
	out := make([]string, 0, len(o.records))
	for _, r := range o.records {
		out = append(out, r.Name)
	}
	return out
}

type repoSnapshot struct {
	repo        domainproperties.Repository
	invalidated int
}

func (s *repoSnapshot) Load(ctx context.Context) ([]domainproperties.Property, error) {
	return s.repo.List(ctx)
}

func (s *repoSnapshot) Invalidate() { s.invalidated++ }

func input(t *testing.T, raw string) dto.PropertyInput {
	t.Helper()
	var in dto.PropertyInput
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

const villaJSON = `{"title": " Villa Cap Cana ", "type": "Villa", "saleType": "Venta", "price": "US$ 950,000",
	"bedrooms": 5, "bathrooms": 6, "area": 600, "location": "Cap Cana, La Altagracia", "latitude": 18.45, "longitude": -68.4}`

func newDeps() (Deps, *memory.PropertyRepository, *recordingOutbox, *repoSnapshot) {
	repo := memory.NewPropertyRepository()
	box := &recordingOutbox{}
	snap := &repoSnapshot{repo: repo}
	fixed := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return Deps{
		Repo:        repo,
		Snapshot:    snap,
		Outbox:      box,
		IDGenerator: func() string { return "65f0c0ffee000000000000aa" },
		Now:         func() time.Time { return fixed },
	}, repo, box, snap
}

func TestCreateUpdateDelete(t *testing.T) {
	deps, repo, box, snap := newDeps()
	ctx := context.Background()

	created, err := (&CreatePropertyHandler{Deps: deps}).Handle(ctx, CreatePropertyCommand{Input: input(t, villaJSON)})
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee000000000000aa", created.ID)

	stored, err := repo.ByID(ctx, "65f0c0ffee000000000000aa")
	require.NoError(t, err)
	assert.Equal(t, "Villa Cap Cana", stored.Title)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), stored.CreatedAt)

	next := input(t, villaJSON)
	next.Title = "Villa renovada"
	updated, err := (&UpdatePropertyHandler{Deps: deps}).Handle(ctx, UpdatePropertyCommand{ID: created.ID, Input: next})
	require.NoError(t, err)
	assert.Equal(t, "Villa renovada", updated.Title)

	_, err = (&DeletePropertyHandler{Deps: deps}).Handle(ctx, DeletePropertyCommand{ID: created.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"property.created", "property.updated", "property.deleted"}, box.names())
	assert.Equal(t, 3, snap.invalidated)
	for _, rec := range box.records {
		assert.Equal(t, created.ID, rec.Aggregate)
	}
}

func TestUpdateDelete_Errors(t *testing.T) {
	deps, _, _, _ := newDeps()
	ctx := context.Background()

	_, err := (&UpdatePropertyHandler{Deps: deps}).Handle(ctx, UpdatePropertyCommand{ID: "bad", Input: input(t, villaJSON)})
	assert.ErrorIs(t, err, domainproperties.ErrInvalidID)

	_, err = (&UpdatePropertyHandler{Deps: deps}).Handle(ctx, UpdatePropertyCommand{ID: "65f0c0ffee00000000000001", Input: input(t, villaJSON)})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)

	_, err = (&DeletePropertyHandler{Deps: deps}).Handle(ctx, DeletePropertyCommand{ID: "65f0c0ffee00000000000001"})
	assert.ErrorIs(t, err, domainproperties.ErrNotFound)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(context.Background(), CreatePropertyCommand{Input: input(t, villaJSON)}))
	assert.NoError(t, Validate(context.Background(), DeletePropertyCommand{ID: "whatever"}), "other messages pass through")

	err := Validate(context.Background(), CreatePropertyCommand{Input: input(t, `{"title": "x", "type": "Castillo", "saleType": "Venta"}`)})
	var verr *domainproperties.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{domainproperties.ErrTypeNotAllowed.Error()}, verr.Problems)

	err = Validate(context.Background(), UpdatePropertyCommand{ID: "nope", Input: input(t, villaJSON)})
	assert.ErrorIs(t, err, domainproperties.ErrInvalidID)
}

func TestQueries(t *testing.T) {
	deps, repo, _, snap := newDeps()
	ctx := context.Background()
	_, err := (&CreatePropertyHandler{Deps: deps}).Handle(ctx, CreatePropertyCommand{Input: input(t, villaJSON)})
	require.NoError(t, err)

	list, err := (&ListPropertiesHandler{Snapshot: snap}).Handle(ctx, ListPropertiesQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := (&GetPropertyHandler{Repo: repo}).Handle(ctx, GetPropertyQuery{ID: "65F0C0FFEE000000000000AA"})
	require.NoError(t, err)
	assert.Equal(t, "Villa Cap Cana", got.Title)

	state := catalog.DefaultFilterState()
	state.Query = "altagracia"
	page, err := (&SearchCatalogHandler{Snapshot: snap}).Handle(ctx, SearchCatalogQuery{State: state})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Total)

	markers, err := (&MapMarkersHandler{Snapshot: snap}).Handle(ctx, MapMarkersQuery{})
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, 18.45, markers[0].Lat)

	_, err = (&ListPropertiesHandler{}).Handle(ctx, ListPropertiesQuery{})
	assert.ErrorIs(t, err, errSnapshotMissing)
}
