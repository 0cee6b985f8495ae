package dto

import (
	"math"

	"milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/money"
)

// MapMarker is a property positioned on the site map.
type MapMarker struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Type           string  `json:"type"`
	SaleType       string  `json:"saleType"`
	PriceFormatted string  `json:"priceFormatted,omitempty"`
	Thumb          string  `json:"thumb,omitempty"`
	Location       string  `json:"location,omitempty"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}

// MapMarkers keeps only properties with coordinates.
func MapMarkers(items []properties.Property) []MapMarker {
	out := make([]MapMarker, 0, len(items))
	for _, p := range items {
		lat, lng, ok := p.Coordinates()
		if !ok {
			continue
		}
		m := MapMarker{
			ID:             string(p.ID),
			Title:          p.Title,
			Type:           p.Type,
			SaleType:       p.SaleType,
			PriceFormatted: p.PriceFormatted,
			Location:       p.Location.Flatten(),
			Lat:            lat,
			Lng:            lng,
		}
		if m.PriceFormatted == "" {
			if price := p.EffectivePrice(); !math.IsNaN(price) {
				m.PriceFormatted = money.Format(price, p.Currency)
			}
		}
		if len(p.Images) > 0 {
			m.Thumb = p.Images[0]
		}
		out = append(out, m)
	}
	return out
}
