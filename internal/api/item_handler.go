package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
	"wanderlist-backend-go/internal/models"
)

// ItemHandler handles API endpoints addressing a single ranked item by ID.
type ItemHandler struct {
	collections core.CollectionService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(collections core.CollectionService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{collections: collections, logger: logger}
}

// SetRank handles PATCH /items/:itemId/rank. A day in the body also moves the item.
func (h *ItemHandler) SetRank(c *gin.Context) {
	var req models.SetRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	if req.Rank == nil {
		badRequest(c, "rank is required", nil)
		return
	}
	ctx := c.Request.Context()
	principal := middleware.PrincipalFrom(c)
	itemID := c.Param("itemId")

	var err error
	if req.Day != nil {
		err = h.collections.SetGroupAndRank(ctx, principal, itemID, *req.Day, *req.Rank)
	} else {
		err = h.collections.SetRank(ctx, principal, itemID, *req.Rank)
	}
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Rank updated"})
}

// RemoveItem handles DELETE /items/:itemId
func (h *ItemHandler) RemoveItem(c *gin.Context) {
	if err := h.collections.RemoveItem(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("itemId")); err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
