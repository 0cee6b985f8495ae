package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"milhouse/internal/domain/properties"
	"milhouse/internal/domain/shared/money"
)

// Property is the JSON document served by /api/properties. The id is echoed as
// both "id" and "_id" for clients written against the raw Mongo documents.
type Property struct {
	ID                   string               `json:"id"`
	MongoID              string               `json:"_id"`
	Title                string               `json:"title"`
	Type                 string               `json:"type"`
	SaleType             string               `json:"saleType"`
	Currency             string               `json:"currency,omitempty"`
	Price                *float64             `json:"price,omitempty"`
	PriceFormatted       string               `json:"priceFormatted,omitempty"`
	EffectivePrice       *float64             `json:"effectivePrice,omitempty"`
	PricePerSqm          *float64             `json:"pricePerSqm,omitempty"`
	Bedrooms             *int                 `json:"bedrooms,omitempty"`
	Bathrooms            *int                 `json:"bathrooms,omitempty"`
	Parking              *int                 `json:"parking,omitempty"`
	Area                 *float64             `json:"area,omitempty"`
	Address              string               `json:"address,omitempty"`
	Location             *properties.Location `json:"location,omitempty"`
	Latitude             *float64             `json:"latitude,omitempty"`
	Longitude            *float64             `json:"longitude,omitempty"`
	DescriptionParagraph string               `json:"descriptionParagraph,omitempty"`
	Features             []string             `json:"features"`
	Amenities            []string             `json:"amenities"`
	Images               []string             `json:"images"`
	Units                []properties.Unit    `json:"units"`
	Related              []properties.Related `json:"related"`
	IsHeroDefault        bool                 `json:"isHeroDefault,omitempty"`
	HeroTitle            string               `json:"heroTitle,omitempty"`
	HeroDescription      string               `json:"heroDescription,omitempty"`
	CreatedAt            *time.Time           `json:"createdAt,omitempty"`
	UpdatedAt            *time.Time           `json:"updatedAt,omitempty"`
}

// MapProperty renders p for the API.
func MapProperty(p properties.Property) Property {
	out := Property{
		ID:                   string(p.ID),
		MongoID:              string(p.ID),
		Title:                p.Title,
		Type:                 p.Type,
		SaleType:             p.SaleType,
		Currency:             p.Currency,
		Price:                p.Price,
		PriceFormatted:       p.PriceFormatted,
		PricePerSqm:          p.PricePerSqm,
		Bedrooms:             p.Bedrooms,
		Bathrooms:            p.Bathrooms,
		Parking:              p.Parking,
		Area:                 p.Area,
		Address:              p.Address,
		Latitude:             p.Latitude,
		Longitude:            p.Longitude,
		DescriptionParagraph: p.DescriptionParagraph,
		Features:             nonNilStrings(p.Features),
		Amenities:            nonNilStrings(p.Amenities),
		Images:               nonNilStrings(p.Images),
		Units:                append([]properties.Unit{}, p.Units...),
		Related:              append([]properties.Related{}, p.Related...),
		IsHeroDefault:        p.IsHeroDefault,
		HeroTitle:            p.HeroTitle,
		HeroDescription:      p.HeroDescription,
	}
	if !p.Location.IsZero() {
		loc := p.Location
		out.Location = &loc
	}
	if price := p.EffectivePrice(); !math.IsNaN(price) {
		out.EffectivePrice = &price
		if out.PriceFormatted == "" {
			out.PriceFormatted = money.Format(price, p.Currency)
		}
	}
	if !p.CreatedAt.IsZero() {
		created := p.CreatedAt
		out.CreatedAt = &created
	}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

// MapProperties renders a collection.
func MapProperties(items []properties.Property) []Property {
	out := make([]Property, 0, len(items))
	for _, p := range items {
		out = append(out, MapProperty(p))
	}
	return out
}

// PropertyInput is the body accepted by create and update.
type PropertyInput struct {
	Title                string               `json:"title"`
	Type                 string               `json:"type"`
	SaleType             string               `json:"saleType"`
	Currency             string               `json:"currency"`
	Price                Amount               `json:"price"`
	PriceFormatted       string               `json:"priceFormatted"`
	PricePerSqm          Amount               `json:"pricePerSqm"`
	Bedrooms             *int                 `json:"bedrooms"`
	Bathrooms            *int                 `json:"bathrooms"`
	Parking              *int                 `json:"parking"`
	Area                 Amount               `json:"area"`
	Address              string               `json:"address"`
	Location             LocationInput        `json:"location"`
	Latitude             *float64             `json:"latitude"`
	Longitude            *float64             `json:"longitude"`
	DescriptionParagraph string               `json:"descriptionParagraph"`
	Features             []string             `json:"features"`
	Amenities            []string             `json:"amenities"`
	Images               []string             `json:"images"`
	Units                []UnitInput          `json:"units"`
	Related              []properties.Related `json:"related"`
	IsHeroDefault        bool                 `json:"isHeroDefault"`
	HeroTitle            string               `json:"heroTitle"`
	HeroDescription      string               `json:"heroDescription"`
	CreatedAt            Timestamp            `json:"createdAt"`
}

// UnitInput mirrors properties.Unit with a lenient price.
type UnitInput struct {
	Name           string `json:"name"`
	Floor          *int   `json:"floor"`
	Bedrooms       *int   `json:"bedrooms"`
	Bathrooms      *int   `json:"bathrooms"`
	Parking        *int   `json:"parking"`
	Area           Amount `json:"area"`
	Zone           string `json:"zone"`
	Terrace        bool   `json:"terrace"`
	Price          Amount `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
}

// ToDomain builds the aggregate described by the input. The id is left empty.
func (in PropertyInput) ToDomain() properties.Property {
	p := properties.Property{
		Title:                in.Title,
		Type:                 in.Type,
		SaleType:             in.SaleType,
		Currency:             in.Currency,
		Price:                in.Price.Ptr(),
		PriceFormatted:       strings.TrimSpace(in.PriceFormatted),
		PricePerSqm:          in.PricePerSqm.Ptr(),
		Bedrooms:             in.Bedrooms,
		Bathrooms:            in.Bathrooms,
		Parking:              in.Parking,
		Area:                 in.Area.Ptr(),
		Address:              in.Address,
		Location:             in.Location.Location,
		Latitude:             in.Latitude,
		Longitude:            in.Longitude,
		DescriptionParagraph: in.DescriptionParagraph,
		Features:             in.Features,
		Amenities:            in.Amenities,
		Images:               in.Images,
		Related:              in.Related,
		IsHeroDefault:        in.IsHeroDefault,
		HeroTitle:            in.HeroTitle,
		HeroDescription:      in.HeroDescription,
	}
	for _, u := range in.Units {
		p.Units = append(p.Units, properties.Unit{
			Name:           strings.TrimSpace(u.Name),
			Floor:          u.Floor,
			Bedrooms:       u.Bedrooms,
			Bathrooms:      u.Bathrooms,
			Parking:        u.Parking,
			Area:           u.Area.Ptr(),
			Zone:           u.Zone,
			Terrace:        u.Terrace,
			Price:          u.Price.Ptr(),
			PriceFormatted: u.PriceFormatted,
		})
	}
	if in.CreatedAt.Valid {
		p.CreatedAt = in.CreatedAt.Time
	}
	return p
}

// Amount accepts a JSON number, a money string ("RD$ 1,200,000") or null.
type Amount struct {
	Value float64
	Valid bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Amount{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if v, ok := money.Parse(raw); ok {
			*a = Amount{Value: v, Valid: true}
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount{Value: v, Valid: true}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// Ptr returns nil for an absent amount.
func (a Amount) Ptr() *float64 {
	if !a.Valid {
		return nil
	}
	v := a.Value
	return &v
}

// LocationInput accepts either a structured location object or free text.
type LocationInput struct {
	properties.Location
}

func (l *LocationInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	l.Location = properties.Location{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &l.Location.Text)
	}
	return json.Unmarshal(data, &l.Location)
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
