package geo

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"milhouse/internal/app/dto"
)

func TestFeatureCollection(t *testing.T) {
	fc := FeatureCollection([]dto.MapMarker{
		{ID: "a", Title: "Casa", Type: "Casa", SaleType: "Venta", Lat: 18.47, Lng: -69.93, PriceFormatted: "RD$1,000"},
		{ID: "b", Title: "Villa", Lat: 19.45, Lng: -70.69},
		{ID: "bad", Title: "Fuera de rango", Lat: 120, Lng: 0},
	})
	require.Len(t, fc.Features, 2)
	assert.Equal(t, orb.Point{-69.93, 18.47}, fc.Features[0].Geometry)
	assert.Equal(t, "RD$1,000", fc.Features[0].Properties["priceFormatted"])
	_, hasThumb := fc.Features[1].Properties["thumb"]
	assert.False(t, hasThumb)

	bound := fc.BBox.Bound()
	assert.Equal(t, orb.Point{-70.69, 18.47}, bound.Min)
	assert.Equal(t, orb.Point{-69.93, 19.45}, bound.Max)

	raw, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"FeatureCollection"`)
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc := FeatureCollection(nil)
	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}
