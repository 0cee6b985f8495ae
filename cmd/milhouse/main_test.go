package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/infra/config"
	ginserver "milhouse/internal/infra/http/gin"
	"milhouse/internal/infra/obs"
)

const seedJSON = `[
	{"_id": {"$oid": "65f0c0ffee00000000000001"}, "title": "Casa Jarabacoa", "type": "Casa", "saleType": "Venta", "price": 300000, "area": 200, "bedrooms": 3, "bathrooms": 2},
	{"title": "Solar sin id", "type": "Solar", "saleType": "Venta", "priceFormatted": "US$ 45,000"},
	{"title": "", "type": "Casa", "saleType": "Venta"}
]`

func newMemoryApp(t *testing.T) *application {
	t.Helper()
	cfg := config.Config{Env: "test", ImageStore: config.ImageStoreAuto, UploadMaxImageMB: 1, UploadMaxBatch: 5}
	app, err := buildApplication(context.Background(), cfg, obs.Discard())
	require.NoError(t, err)
	return app
}

func TestSeed_ImportsIntoEmptyStore(t *testing.T) {
	app := newMemoryApp(t)
	path := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))

	require.NoError(t, app.seed(context.Background(), path, obs.Discard()))
	all, err := app.repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := []string{string(all[0].ID), string(all[1].ID)}
	assert.Contains(t, ids, "65f0c0ffee00000000000001")

	require.NoError(t, app.seed(context.Background(), path, obs.Discard()))
	all, err = app.repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2, "non-empty store is left alone")
}

func TestSeed_MissingFileIsNotAnError(t *testing.T) {
	app := newMemoryApp(t)
	assert.NoError(t, app.seed(context.Background(), filepath.Join(t.TempDir(), "nope.json"), obs.Discard()))
	assert.NoError(t, app.seed(context.Background(), "", obs.Discard()))
}

func TestBuildApplication_ServesSeededCatalog(t *testing.T) {
	app := newMemoryApp(t)
	path := filepath.Join(t.TempDir(), "properties.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o600))
	require.NoError(t, app.seed(context.Background(), path, obs.Discard()))

	router := ginserver.NewRouter(config.Config{}, obs.Middleware{Logger: obs.Discard()}, obs.HealthHandlers{Ready: app.ready}, app.handlers)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog?type=solar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Solar sin id")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
