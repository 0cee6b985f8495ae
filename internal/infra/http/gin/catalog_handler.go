package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/dto"
	propertiesapp "milhouse/internal/app/handlers/properties"
	"milhouse/internal/app/queries"
	"milhouse/internal/domain/catalog"
	"milhouse/internal/domain/shared/money"
	"milhouse/internal/infra/geo"
)

type CatalogHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

// Search runs the listing filters server side. Query parameters mirror the
// admin console: q, type, saleType, min, max, sort, pageSize, page.
func (h CatalogHandler) Search(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	query := propertiesapp.SearchCatalogQuery{State: parseFilterState(c)}
	result, err := queries.Ask[propertiesapp.SearchCatalogQuery, dto.CatalogPage](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CatalogHandler) GeoJSON(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	markers, err := queries.Ask[propertiesapp.MapMarkersQuery, []dto.MapMarker](c.Request.Context(), h.Queries, propertiesapp.MapMarkersQuery{})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	payload, err := geo.FeatureCollection(markers).MarshalJSON()
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", payload)
}

func parseFilterState(c *gin.Context) catalog.FilterState {
	state := catalog.DefaultFilterState()
	state.Query = c.Query("q")
	state.Type = c.Query("type")
	state.SaleType = c.Query("saleType")
	state.Min = money.ParsePtr(c.Query("min"))
	state.Max = money.ParsePtr(c.Query("max"))
	if raw := strings.TrimSpace(c.Query("sort")); raw != "" {
		state.SortField, state.SortDirection = catalog.ParseSort(raw)
	}
	state.PageSize = parseIntWithDefault(c.Query("pageSize"), catalog.DefaultPageSize)
	state.Page = parseIntWithDefault(c.Query("page"), 1)
	return state
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

func parseIntWithDefault(raw string, fallback int) int {
	value := parseInt(raw)
	if value == 0 {
		return fallback
	}
	return value
}

var _ CatalogHTTP = CatalogHandler{}
