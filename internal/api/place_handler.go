package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
)

const defaultContributorLimit = 10

// PlaceHandler handles the public read endpoints of a place.
type PlaceHandler struct {
	visibility core.VisibilityService
	logger     *zap.Logger
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(visibility core.VisibilityService, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{visibility: visibility, logger: logger}
}

// ListPhotos handles GET /places/:placeId/photos
func (h *PlaceHandler) ListPhotos(c *gin.Context) {
	var viewerID *string
	if principal := middleware.PrincipalFrom(c); principal != nil {
		viewerID = &principal.ID
	}
	photos, err := h.visibility.ListPlacePhotos(c.Request.Context(), viewerID, c.Param("placeId"))
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, photos)
}

// ListContributors handles GET /places/:placeId/contributors?limit=n
func (h *PlaceHandler) ListContributors(c *gin.Context) {
	limit := defaultContributorLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "limit must be an integer", err)
			return
		}
		limit = parsed
	}
	contributors, err := h.visibility.PlaceContributors(c.Request.Context(), c.Param("placeId"), limit)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contributors)
}

// GetStats handles GET /places/:placeId/stats
func (h *PlaceHandler) GetStats(c *gin.Context) {
	stats, err := h.visibility.PlaceStats(c.Request.Context(), c.Param("placeId"))
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
