package properties

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"milhouse/internal/domain/shared/events"
	"milhouse/internal/domain/shared/money"
)

var (
	ErrTitleRequired    = errors.New("properties: title is required")
	ErrTypeRequired     = errors.New("properties: type is required")
	ErrSaleTypeRequired = errors.New("properties: saleType is required")
	ErrTypeNotAllowed   = errors.New("properties: type is not allowed")
	ErrNotFound         = errors.New("properties: property not found")
	ErrInvalidID        = errors.New("properties: invalid id")
	ErrNothingToUpdate  = errors.New("properties: nothing to update")
)

type PropertyID string

// Property types accepted by the admin console. "Solar" and "Solares" are both kept
// for compatibility with older documents.
const (
	TypeCasa           = "Casa"
	TypeApartamento    = "Apartamento"
	TypePenthouse      = "Penthouse"
	TypeSolar          = "Solar"
	TypeSolares        = "Solares"
	TypeVilla          = "Villa"
	TypeLocalComercial = "Local Comercial"
)

var allowedTypes = []string{TypeCasa, TypeApartamento, TypePenthouse, TypeSolar, TypeSolares, TypeVilla, TypeLocalComercial}

var unitTypes = []string{TypeApartamento, TypePenthouse}

// AllowedTypes lists the property types a listing may declare.
func AllowedTypes() []string {
	return append([]string(nil), allowedTypes...)
}

// IsAllowedType reports whether t is one of AllowedTypes (exact match).
func IsAllowedType(t string) bool {
	for _, candidate := range allowedTypes {
		if t == candidate {
			return true
		}
	}
	return false
}

// SupportsUnits reports whether properties of type t carry a tipología table.
func SupportsUnits(t string) bool {
	t = strings.TrimSpace(t)
	for _, candidate := range unitTypes {
		if strings.EqualFold(t, candidate) {
			return true
		}
	}
	return false
}

// IsSolarType covers both spellings used for land plots.
func IsSolarType(t string) bool {
	t = strings.TrimSpace(t)
	return strings.EqualFold(t, TypeSolar) || strings.EqualFold(t, TypeSolares)
}

// Location is either structured or a free-text place description kept in Text.
type Location struct {
	Text     string   `json:"text,omitempty" bson:"text,omitempty"`
	Sector   string   `json:"sector,omitempty" bson:"sector,omitempty"`
	Area     string   `json:"area,omitempty" bson:"area,omitempty"`
	City     string   `json:"city,omitempty" bson:"city,omitempty"`
	Province string   `json:"province,omitempty" bson:"province,omitempty"`
	Country  string   `json:"country,omitempty" bson:"country,omitempty"`
	Lat      *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// Flatten joins sector, city, province and country with ", " skipping blanks.
// Free-text locations are returned as-is.
func (l Location) Flatten() string {
	if strings.TrimSpace(l.Text) != "" {
		return strings.TrimSpace(l.Text)
	}
	parts := make([]string, 0, 4)
	for _, part := range []string{l.Sector, l.City, l.Province, l.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// IsZero reports whether no location data is present.
func (l Location) IsZero() bool {
	return l.Text == "" && l.Sector == "" && l.Area == "" && l.City == "" && l.Province == "" && l.Country == "" && l.Lat == nil && l.Lng == nil
}

// Unit is one tipología of a multi-unit development.
type Unit struct {
	Name           string   `json:"name" bson:"name"`
	Floor          *int     `json:"floor,omitempty" bson:"floor,omitempty"`
	Bedrooms       *int     `json:"bedrooms,omitempty" bson:"bedrooms,omitempty"`
	Bathrooms      *int     `json:"bathrooms,omitempty" bson:"bathrooms,omitempty"`
	Parking        *int     `json:"parking,omitempty" bson:"parking,omitempty"`
	Area           *float64 `json:"area,omitempty" bson:"area,omitempty"`
	Zone           string   `json:"zone,omitempty" bson:"zone,omitempty"`
	Terrace        bool     `json:"terrace,omitempty" bson:"terrace,omitempty"`
	Price          *float64 `json:"price,omitempty" bson:"price,omitempty"`
	PriceFormatted string   `json:"priceFormatted,omitempty" bson:"priceFormatted,omitempty"`
}

// Related is a cross-link to another listing shown under the detail page.
type Related struct {
	Title          string `json:"title" bson:"title"`
	PriceFormatted string `json:"priceFormatted,omitempty" bson:"priceFormatted,omitempty"`
	Thumb          string `json:"thumb,omitempty" bson:"thumb,omitempty"`
	URL            string `json:"url,omitempty" bson:"url,omitempty"`
}

type Property struct {
	ID                   PropertyID
	Title                string
	Type                 string
	SaleType             string
	Currency             string
	Price                *float64
	PriceFormatted       string
	PricePerSqm          *float64
	Bedrooms             *int
	Bathrooms            *int
	Parking              *int
	Area                 *float64
	Address              string
	Location             Location
	Latitude             *float64
	Longitude            *float64
	DescriptionParagraph string
	Features             []string
	Amenities            []string
	Images               []string
	Units                []Unit
	Related              []Related
	IsHeroDefault        bool
	HeroTitle            string
	HeroDescription      string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	events.EventRecorder
}

type Repository interface {
	List(ctx context.Context) ([]Property, error)
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Create(ctx context.Context, p *Property) error
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id PropertyID) error
}

// Coordinates returns the map position, preferring the top-level pair set by the
// admin map picker over the one nested in the location.
func (p Property) Coordinates() (lat, lng float64, ok bool) {
	if p.Latitude != nil && p.Longitude != nil {
		return *p.Latitude, *p.Longitude, true
	}
	if p.Location.Lat != nil && p.Location.Lng != nil {
		return *p.Location.Lat, *p.Location.Lng, true
	}
	return 0, 0, false
}

// MinUnitPrice is the lowest finite unit price, ok=false when no unit has one.
func (p Property) MinUnitPrice() (float64, bool) {
	best, found := 0.0, false
	for _, u := range p.Units {
		if u.Price == nil || !finite(*u.Price) {
			continue
		}
		if !found || *u.Price < best {
			best, found = *u.Price, true
		}
	}
	return best, found
}

// Normalize trims text fields, derives price per square meter for land plots and
// pins the price of multi-unit developments to their cheapest unit.
func (p *Property) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	p.Type = strings.TrimSpace(p.Type)
	p.SaleType = strings.TrimSpace(p.SaleType)
	p.Address = strings.TrimSpace(p.Address)
	p.DescriptionParagraph = strings.TrimSpace(p.DescriptionParagraph)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	p.Features = compactStrings(p.Features)
	p.Amenities = compactStrings(p.Amenities)
	p.Images = compactStrings(p.Images)

	if IsSolarType(p.Type) && p.PricePerSqm == nil && p.Price != nil && p.Area != nil && *p.Area > 0 {
		perSqm := *p.Price / *p.Area
		p.PricePerSqm = &perSqm
	}
	if SupportsUnits(p.Type) && len(p.Units) > 0 {
		if minPrice, ok := p.MinUnitPrice(); ok {
			p.Price = &minPrice
		}
	}
}

// CheckRequired enforces the fields every create request must carry.
func (p Property) CheckRequired() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(p.Type) == "" {
		return ErrTypeRequired
	}
	if strings.TrimSpace(p.SaleType) == "" {
		return ErrSaleTypeRequired
	}
	if !IsAllowedType(strings.TrimSpace(p.Type)) {
		return ErrTypeNotAllowed
	}
	return nil
}

// MarkCreated stamps creation time and records the creation event.
func (p *Property) MarkCreated(now time.Time) {
	p.CreatedAt = now.UTC()
	p.UpdatedAt = now.UTC()
	p.Record(PropertyCreatedEvent{PropertyID: p.ID, Type: p.Type, At: p.CreatedAt})
}

// MarkUpdated stamps the update time and records the update event.
func (p *Property) MarkUpdated(now time.Time) {
	p.UpdatedAt = now.UTC()
	p.Record(PropertyUpdatedEvent{PropertyID: p.ID, At: p.UpdatedAt})
}

func compactStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EffectivePrice resolves the price used for filtering and sorting: the numeric
// price, then the cheapest unit of a multi-unit development, then the number
// recovered from PriceFormatted. NaN when none resolves.
func (p Property) EffectivePrice() float64 {
	if p.Price != nil && finite(*p.Price) {
		return *p.Price
	}
	if SupportsUnits(p.Type) {
		if minPrice, ok := p.MinUnitPrice(); ok {
			return minPrice
		}
	}
	if value, ok := money.Parse(p.PriceFormatted); ok {
		return value
	}
	return math.NaN()
}
