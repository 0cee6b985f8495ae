package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"milhouse/internal/app/commands"
	"milhouse/internal/app/dto"
	heroapp "milhouse/internal/app/handlers/hero"
	mediaapp "milhouse/internal/app/handlers/media"
	"milhouse/internal/app/queries"
)

type HeroHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type heroRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (h HeroHandler) Get(c *gin.Context) {
	if h.Queries == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errQueriesUnavailable)
		return
	}
	result, err := queries.Ask[heroapp.GetHeroQuery, dto.HeroConfig](c.Request.Context(), h.Queries, heroapp.GetHeroQuery{})
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HeroHandler) Save(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	var req heroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, h.Logger, http.StatusBadRequest, err)
		return
	}
	cmd := heroapp.SaveHeroCommand{Title: req.Title, Description: req.Description, ImageURL: req.ImageURL}
	result, err := commands.Dispatch[heroapp.SaveHeroCommand, dto.HeroConfig](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		handleError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadImage answers in the {success, message} shape the admin hero editor
// expects, including on failure.
func (h HeroHandler) UploadImage(c *gin.Context) {
	if h.Commands == nil {
		respondWithError(c, h.Logger, http.StatusServiceUnavailable, errCommandsUnavailable)
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No se recibió ninguna imagen"})
		return
	}
	upload, closer, err := openUpload(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	defer closer.Close()

	result, err := commands.Dispatch[heroapp.UploadHeroImageCommand, dto.HeroImage](c.Request.Context(), h.Commands, heroapp.UploadHeroImageCommand{File: upload})
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			respondWithError(c, h.Logger, status, err)
			return
		}
		c.JSON(status, gin.H{"success": false, "message": mediaapp.Describe(err)})
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ HeroHTTP = HeroHandler{}
