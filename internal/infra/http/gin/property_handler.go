package ginserver

import (
	"fmt"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	propertiesapp "milhouse/internal/app/handlers/properties"
	"milhouse/internal/app/queries"
)

const idempotencyHeader = "Idempotency-Key"

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h PropertyHandler) List(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	result, err := queries.Ask[propertiesapp.ListPropertiesQuery, []dto.Property](c.Request.Context(), h.Queries, propertiesapp.ListPropertiesQuery{})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	if result == nil {
		result = []dto.Property{}
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	query := propertiesapp.GetPropertyQuery{ID: c.Param("id")}
	result, err := queries.Ask[propertiesapp.GetPropertyQuery, dto.Property](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	var input dto.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	cmd := propertiesapp.CreatePropertyCommand{Input: input, RequestKey: c.GetHeader(idempotencyHeader)}
	result, err := commands.Dispatch[propertiesapp.CreatePropertyCommand, dto.Mutation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/properties/%s", result.ID))
	c.JSON(http.StatusCreated, result)
}

func (h PropertyHandler) Update(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	var input dto.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	cmd := propertiesapp.UpdatePropertyCommand{ID: c.Param("id"), Input: input}
	result, err := commands.Dispatch[propertiesapp.UpdatePropertyCommand, dto.Property](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PropertyHandler) Delete(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	cmd := propertiesapp.DeletePropertyCommand{ID: c.Param("id")}
	result, err := commands.Dispatch[propertiesapp.DeletePropertyCommand, dto.Mutation](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PropertyHTTP = PropertyHandler{}
