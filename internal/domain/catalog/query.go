package catalog

import (
	"math"
	"sort"
	"strings"

	"milhouse/internal/domain/properties"
)

// SortField is a supported ordering key.
type SortField string

const (
	SortByPrice     SortField = "price"
	SortByArea      SortField = "area"
	SortByCreatedAt SortField = "createdAt"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

const (
	DefaultPageSize = 9
	defaultSort     = SortByCreatedAt
	defaultDir      = Desc
)

// FilterState is the filter, sort and page selection applied to a collection.
// Min and Max are nil when unbounded.
type FilterState struct {
	Query         string
	Type          string
	SaleType      string
	Min           *float64
	Max           *float64
	SortField     SortField
	SortDirection SortDirection
	PageSize      int
	Page          int
}

// DefaultFilterState mirrors the admin console on first load.
func DefaultFilterState() FilterState {
	return FilterState{
		SortField:     defaultSort,
		SortDirection: defaultDir,
		PageSize:      DefaultPageSize,
		Page:          1,
	}
}

// ParseSort decodes the "field-direction" token used by the UI ("price-asc").
// Unknown fields or directions fall back to createdAt-desc.
func ParseSort(raw string) (SortField, SortDirection) {
	field, dir, _ := strings.Cut(strings.TrimSpace(raw), "-")
	f := SortField(field)
	switch f {
	case SortByPrice, SortByArea, SortByCreatedAt:
	default:
		return defaultSort, defaultDir
	}
	d := SortDirection(strings.ToLower(dir))
	if d != Asc {
		d = Desc
	}
	return f, d
}

// SortToken is the inverse of ParseSort.
func (s FilterState) SortToken() string {
	n := s.Normalized()
	return string(n.SortField) + "-" + string(n.SortDirection)
}

// Normalized returns a sanitized copy of the state.
func (s FilterState) Normalized() FilterState {
	n := s
	n.Query = strings.TrimSpace(strings.ToLower(n.Query))
	n.Type = strings.TrimSpace(n.Type)
	n.SaleType = strings.TrimSpace(n.SaleType)
	switch n.SortField {
	case SortByPrice, SortByArea, SortByCreatedAt:
	default:
		n.SortField = defaultSort
	}
	if n.SortDirection != Asc && n.SortDirection != Desc {
		n.SortDirection = defaultDir
	}
	if n.PageSize <= 0 {
		n.PageSize = DefaultPageSize
	}
	if n.Page < 1 {
		n.Page = 1
	}
	return n
}

// Result is one page of matches plus pagination metadata.
type Result struct {
	Items      []properties.Property
	Page       int
	TotalPages int
	TotalCount int
}

// Query filters, sorts and paginates all according to state. It does not modify
// all and returns the same result for the same inputs.
func Query(all []properties.Property, state FilterState) Result {
	opts := state.Normalized()

	matches := make([]properties.Property, 0, len(all))
	for _, p := range all {
		if !properties.ParseIdentifier(string(p.ID)).Valid() {
			continue
		}
		if !matchesText(p, opts.Query) {
			continue
		}
		if !equalFoldOrEmpty(opts.Type, p.Type) || !equalFoldOrEmpty(opts.SaleType, p.SaleType) {
			continue
		}
		if !withinBounds(p, opts.Min, opts.Max) {
			continue
		}
		matches = append(matches, p)
	}

	sortProperties(matches, opts.SortField, opts.SortDirection)

	total := len(matches)
	pages := (total + opts.PageSize - 1) / opts.PageSize
	if pages < 1 {
		pages = 1
	}
	page := opts.Page
	if page > pages {
		page = pages
	}
	start := (page - 1) * opts.PageSize
	if start > total {
		start = total
	}
	end := start + opts.PageSize
	if end > total {
		end = total
	}

	return Result{
		Items:      matches[start:end:end],
		Page:       page,
		TotalPages: pages,
		TotalCount: total,
	}
}

// Haystack is the lowercase text the free-text filter searches.
func Haystack(p properties.Property) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{p.Title, p.DescriptionParagraph, p.Type, p.SaleType, p.Location.Flatten()} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesText(p properties.Property, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Haystack(p), needle)
}

func equalFoldOrEmpty(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, value)
}

// withinBounds skips price filtering entirely when no bound is set; with a bound,
// records without a resolvable price are excluded.
func withinBounds(p properties.Property, minPrice, maxPrice *float64) bool {
	if minPrice == nil && maxPrice == nil {
		return true
	}
	price := p.EffectivePrice()
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return false
	}
	if minPrice != nil && price < *minPrice {
		return false
	}
	if maxPrice != nil && price > *maxPrice {
		return false
	}
	return true
}

func sortProperties(items []properties.Property, field SortField, dir SortDirection) {
	keys := make([]float64, len(items))
	for i, p := range items {
		keys[i] = sortKey(p, field)
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if dir == Asc {
			return ka < kb
		}
		return ka > kb
	})
	sorted := make([]properties.Property, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}

// sortKey maps missing or non-finite values to -Inf.
func sortKey(p properties.Property, field SortField) float64 {
	var v float64
	switch field {
	case SortByPrice:
		v = p.EffectivePrice()
	case SortByArea:
		if p.Area == nil {
			return math.Inf(-1)
		}
		v = *p.Area
	default:
		if p.CreatedAt.IsZero() {
			return math.Inf(-1)
		}
		v = float64(p.CreatedAt.UnixMilli())
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return math.Inf(-1)
	}
	return v
}
