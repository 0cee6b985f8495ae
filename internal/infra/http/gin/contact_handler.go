package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	contactsapp "milhouse/internal/app/handlers/contacts"
	"milhouse/internal/app/queries"
)

type ContactHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId"`
	Source     string `json:"source"`
}

func (h ContactHandler) Submit(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	cmd := contactsapp.SubmitContactCommand{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
		PropertyID: req.PropertyID,
		Source:     req.Source,
		RequestKey: c.GetHeader(idempotencyHeader),
	}
	result, err := commands.Dispatch[contactsapp.SubmitContactCommand, dto.Contact](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ContactHandler) List(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	result, err := queries.Ask[contactsapp.ListContactsQuery, []dto.Contact](c.Request.Context(), h.Queries, contactsapp.ListContactsQuery{})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	if result == nil {
		result = []dto.Contact{}
	}
	c.JSON(http.StatusOK, result)
}

var _ ContactHTTP = ContactHandler{}
