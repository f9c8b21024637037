package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
	"wanderlist-backend-go/internal/models"
)

// BucketListHandler handles API endpoints for the caller's bucket list.
type BucketListHandler struct {
	bucket      core.BucketListService
	collections core.CollectionService
	logger      *zap.Logger
}

// NewBucketListHandler creates a new BucketListHandler.
func NewBucketListHandler(bucket core.BucketListService, collections core.CollectionService, logger *zap.Logger) *BucketListHandler {
	return &BucketListHandler{bucket: bucket, collections: collections, logger: logger}
}

// ListBucketList handles GET /bucket-list. Anonymous callers get an empty list.
func (h *BucketListHandler) ListBucketList(c *gin.Context) {
	items, err := h.bucket.List(c.Request.Context(), middleware.PrincipalFrom(c))
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToBucketList handles POST /bucket-list
func (h *BucketListHandler) AddToBucketList(c *gin.Context) {
	var req models.AddBucketListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	id, err := h.bucket.Add(c.Request.Context(), middleware.PrincipalFrom(c), req.PlaceID)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{ID: id})
}

// ReorderBucketList handles PUT /bucket-list/order
func (h *BucketListHandler) ReorderBucketList(c *gin.Context) {
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
	err := h.collections.Reorder(c.Request.Context(), principal, principal.ID, models.BucketList(), req.ItemIDs)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Bucket list reordered"})
}

// MarkVisited handles POST /bucket-list/:itemId/visit. The body is optional.
func (h *BucketListHandler) MarkVisited(c *gin.Context) {
	var req models.MarkVisitedRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request payload", err)
		return
	}
	item, err := h.bucket.MarkVisited(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("itemId"), core.VisitInput{
		Rating:    req.Rating,
		Weather:   req.Weather,
		VisitedAt: req.VisitedAt,
	})
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// MarkSkipped handles POST /bucket-list/:itemId/skip
func (h *BucketListHandler) MarkSkipped(c *gin.Context) {
	item, err := h.bucket.MarkSkipped(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("itemId"))
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
