package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/domain/catalog"
	"milhouse/internal/infra/obs"
)

const listBody = `[
	{"_id": "65f0c0ffee00000000000001", "title": "Casa en Gurabo", "type": "Casa", "saleType": "Venta", "price": 250000, "createdAt": "2025-01-01T00:00:00Z"},
	{"_id": {"$oid": "65f0c0ffee00000000000002"}, "title": "Apartamento Naco", "type": "Apartamento", "saleType": "Alquiler",
	 "units": [{"name": "A", "price": "US$ 180,000"}, {"name": "B", "price": 150000}], "createdAt": "2025-01-02T00:00:00Z"},
	{"title": "Sin id", "type": "Casa", "saleType": "Venta", "priceFormatted": "RD$ 1.000.000"},
	{"_id": "65f0c0ffee00000000000004", "title": 12}
]`

func serve(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, propertiesPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/", Logger: obs.Discard()})
	require.NoError(t, err)
	return c
}

func TestFetchProperties_Array(t *testing.T) {
	c := serve(t, http.StatusOK, listBody)
	items, err := c.FetchProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3, "undecodable documents are skipped")

	assert.Equal(t, "65f0c0ffee00000000000001", string(items[0].ID))
	assert.Equal(t, "65f0c0ffee00000000000002", string(items[1].ID))
	assert.Empty(t, items[2].ID)
	assert.Equal(t, 150000.0, items[1].EffectivePrice())

	res := catalog.Query(items, catalog.DefaultFilterState())
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, "Apartamento Naco", res.Items[0].Title)
}

func TestFetchProperties_WrappedList(t *testing.T) {
	for _, key := range wrapperKeys {
		c := serve(t, http.StatusOK, `{"total": 1, "`+key+`": [{"id": "65f0c0ffee00000000000009", "title": "Villa", "type": "Villa", "saleType": "Venta"}]}`)
		items, err := c.FetchProperties(context.Background())
		require.NoError(t, err, key)
		require.Len(t, items, 1, key)
		assert.Equal(t, "65f0c0ffee00000000000009", string(items[0].ID))
	}
}

func TestFetchProperties_Errors(t *testing.T) {
	c := serve(t, http.StatusOK, `{"message": "nada"}`)
	_, err := c.FetchProperties(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedShape)

	c = serve(t, http.StatusNotFound, `{"error": "not found"}`)
	_, err = c.FetchProperties(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = New(Options{})
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestDecodeCollection(t *testing.T) {
	docs, err := DecodeCollection([]byte(` [] `))
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = DecodeCollection([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrUnexpectedShape)

	_, err = DecodeCollection(nil)
	assert.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestDecodeProperties_CreatedAtShapes(t *testing.T) {
	body := []byte(`[
		{"_id": "65f0c0ffee00000000000011", "title": "Casa", "type": "Casa", "saleType": "Venta", "createdAt": 1717200000000},
		{"_id": "65f0c0ffee00000000000012", "title": "Villa", "type": "Villa", "saleType": "Venta", "createdAt": {"$date": "2024-06-01T00:00:00Z"}},
		{"_id": "65f0c0ffee00000000000013", "title": "Solar", "type": "Solar", "saleType": "Venta", "createdAt": "2024-06-01T00:00:00Z"}
	]`)
	props, err := DecodeProperties(body, nil)
	require.NoError(t, err)
	require.Len(t, props, 3)
	for _, p := range props {
		assert.Equal(t, int64(1717200000000), p.CreatedAt.UnixMilli(), p.Title)
	}
}
