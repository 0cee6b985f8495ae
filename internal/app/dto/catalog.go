package dto

import (
	"milhouse/internal/domain/catalog"
)

// CatalogPage is one page of the listing query engine.
type CatalogPage struct {
	Items   []Property     `json:"items"`
	Filters CatalogFilters `json:"filters"`
	Meta    CatalogMeta    `json:"meta"`
}

// CatalogFilters echoes back the applied filters.
type CatalogFilters struct {
	Query    string   `json:"q"`
	Type     string   `json:"type"`
	SaleType string   `json:"saleType"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Sort     string   `json:"sort"`
}

// CatalogMeta describes pagination.
type CatalogMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
	Count      int `json:"count"`
}

// MapCatalog renders a query result together with the state that produced it.
func MapCatalog(res catalog.Result, state catalog.FilterState) CatalogPage {
	normalized := state.Normalized()
	items := MapProperties(res.Items)
	return CatalogPage{
		Items: items,
		Filters: CatalogFilters{
			Query:    normalized.Query,
			Type:     normalized.Type,
			SaleType: normalized.SaleType,
			Min:      normalized.Min,
			Max:      normalized.Max,
			Sort:     normalized.SortToken(),
		},
		Meta: CatalogMeta{
			Page:       res.Page,
			PageSize:   normalized.PageSize,
			TotalPages: res.TotalPages,
			Total:      res.TotalCount,
			Count:      len(items),
		},
	}
}
