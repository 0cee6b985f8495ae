package ginserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/dto"
	loansapp "milhouse/internal/app/handlers/loans"
	"milhouse/internal/app/queries"
)

type LoanHandler struct {
	Queries queries.Bus
	Logger  *slog.Logger
}

type loanQuoteRequest struct {
	PropertyID         string          `json:"propertyId"`
	UnitIndex          *int            `json:"unitIndex"`
	BasePrice          dto.Amount      `json:"basePrice"`
	DownPayment        dto.Amount      `json:"downPayment"`
	DownPaymentPercent *float64        `json:"downPaymentPercent"`
	BankID             string          `json:"bankId"`
	CustomRate         json.RawMessage `json:"customRate"`
	TermYears          int             `json:"termYears"`
}

// customRate keeps the raw user text so "9,75%" reaches the parser untouched.
func (r loanQuoteRequest) customRate() string {
	raw := bytes.TrimSpace(r.CustomRate)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func (h LoanHandler) Quote(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	var req loanQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	query := loansapp.QuoteLoanQuery{
		PropertyID:         req.PropertyID,
		UnitIndex:          req.UnitIndex,
		BasePrice:          req.BasePrice.Ptr(),
		DownPayment:        req.DownPayment.Ptr(),
		DownPaymentPercent: req.DownPaymentPercent,
		BankID:             req.BankID,
		CustomRate:         req.customRate(),
		TermYears:          req.TermYears,
	}
	result, err := queries.Ask[loansapp.QuoteLoanQuery, dto.LoanQuote](c.Request.Context(), h.Queries, query)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h LoanHandler) Banks(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	result, err := queries.Ask[loansapp.ListBanksQuery, dto.Banks](c.Request.Context(), h.Queries, loansapp.ListBanksQuery{})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ LoanHTTP = LoanHandler{}
