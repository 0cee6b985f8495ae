package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"milhouse/internal/app/dto"
)

// FeatureCollection renders markers as GeoJSON points. Coordinates outside the
// valid WGS84 range are dropped. The collection carries a bbox when it has at
// least one feature.
func FeatureCollection(markers []dto.MapMarker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	points := make(orb.MultiPoint, 0, len(markers))
	for _, m := range markers {
		if !validCoordinate(m.Lat, m.Lng) {
			continue
		}
		pt := orb.Point{m.Lng, m.Lat}
		points = append(points, pt)

		feature := geojson.NewFeature(pt)
		feature.ID = m.ID
		feature.Properties = geojson.Properties{
			"id":       m.ID,
			"title":    m.Title,
			"type":     m.Type,
			"saleType": m.SaleType,
		}
		if m.PriceFormatted != "" {
			feature.Properties["priceFormatted"] = m.PriceFormatted
		}
		if m.Thumb != "" {
			feature.Properties["thumb"] = m.Thumb
		}
		if m.Location != "" {
			feature.Properties["location"] = m.Location
		}
		fc.Append(feature)
	}
	if len(points) > 0 {
		fc.BBox = geojson.NewBBox(points.Bound())
	}
	return fc
}

func validCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
