package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	loansapp "milhouse/internal/app/handlers/loans"
	mediaapp "milhouse/internal/app/handlers/media"
	domaincontacts "milhouse/internal/domain/contacts"
	domainhero "milhouse/internal/domain/hero"
	"milhouse/internal/domain/loan"
	domainmedia "milhouse/internal/domain/media"
	domainproperties "milhouse/internal/domain/properties"
)

var (
	errCommandsUnavailable = errors.New("commands bus unavailable")
	errQueriesUnavailable  = errors.New("queries bus unavailable")
)

var badRequestErrors = []error{
	domainproperties.ErrInvalidID,
	domainproperties.ErrTitleRequired,
	domainproperties.ErrTypeRequired,
	domainproperties.ErrSaleTypeRequired,
	domainproperties.ErrTypeNotAllowed,
	domainproperties.ErrNothingToUpdate,
	domainmedia.ErrInvalidID,
	domainmedia.ErrEmpty,
	domainmedia.ErrTooLarge,
	domainmedia.ErrExtension,
	domainmedia.ErrMIMEType,
	domainmedia.ErrContent,
	mediaapp.ErrNoFiles,
	mediaapp.ErrBatchTooLarge,
	domainhero.ErrTitleRequired,
	domaincontacts.ErrNameRequired,
	domaincontacts.ErrChannelRequired,
	domaincontacts.ErrInvalidEmail,
	loan.ErrInvalidCustomRate,
	loan.ErrUnknownBank,
	loansapp.ErrBasePriceRequired,
}

var notFoundErrors = []error{
	domainproperties.ErrNotFound,
	domainmedia.ErrNotFound,
	domainhero.ErrNotFound,
}

func statusFor(err error) int {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// handleError maps application errors to HTTP responses. Validation failures
// list every problem under "errors".
func handleError(c *gin.Context, logger *slog.Logger, err error) {
	var verr *domainproperties.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "errors": verr.Problems})
		return
	}
	var rejected *mediaapp.RejectedError
	if errors.As(err, &rejected) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Ninguna imagen pudo ser subida", "errors": rejected.Problems})
		return
	}
	respondWithError(c, logger, statusFor(err), err)
}

func respondWithError(c *gin.Context, logger *slog.Logger, status int, err error) {
	if logger != nil && status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), "request failed", "status", status, "error", err, "path", c.FullPath())
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
