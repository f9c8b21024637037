package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
	"wanderlist-backend-go/internal/models"
)

// TripHandler handles API endpoints for itinerary items of a trip.
type TripHandler struct {
	collections core.CollectionService
	logger      *zap.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(collections core.CollectionService, logger *zap.Logger) *TripHandler {
	return &TripHandler{collections: collections, logger: logger}
}

func parseDay(raw string) (int, error) {
	return strconv.Atoi(raw)
}

// ListTripItems handles GET /trips/:tripId/items[?day=n][&ownerId=u].
// ownerId defaults to the caller; collections of other owners read as empty.
func (h *TripHandler) ListTripItems(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	ownerID := c.Query("ownerId")
	if ownerID == "" && principal != nil {
		ownerID = principal.ID
	}
	scope := models.WholeTrip(c.Param("tripId"))
	if raw := c.Query("day"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			badRequest(c, "day must be an integer", err)
			return
		}
		scope = models.TripDay(c.Param("tripId"), day)
	}

	items, err := h.collections.ListByScope(c.Request.Context(), principal, ownerID, scope)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddTripItem handles POST /trips/:tripId/items
func (h *TripHandler) AddTripItem(c *gin.Context) {
	var req models.AddItineraryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id, err := h.collections.AddItem(c.Request.Context(), middleware.PrincipalFrom(c), core.AddItemInput{
		Scope:   models.TripDay(c.Param("tripId"), req.Day),
		Rank:    req.Rank,
		PlaceID: req.PlaceID,
	})
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

// ReorderDay handles PUT /trips/:tripId/days/:day/order
func (h *TripHandler) ReorderDay(c *gin.Context) {
	day, err := parseDay(c.Param("day"))
	if err != nil {
		badRequest(c, "day must be an integer", err)
		return
	}
	var req models.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		respondWithError(c, h.logger, core.ErrAuthenticationRequired)
		return
	}
	scope := models.TripDay(c.Param("tripId"), day)
	if err := h.collections.Reorder(c.Request.Context(), principal, principal.ID, scope, req.ItemIDs); err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Day reordered"})
}
