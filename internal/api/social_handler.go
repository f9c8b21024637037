package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/middleware"
	"wanderlist-backend-go/internal/models"
)

// SocialHandler handles photo visibility and the follow graph.
type SocialHandler struct {
	visibility core.VisibilityService
	logger     *zap.Logger
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(visibility core.VisibilityService, logger *zap.Logger) *SocialHandler {
	return &SocialHandler{visibility: visibility, logger: logger}
}

// SetPhotoVisibility handles PUT /photos/:photoId/visibility
func (h *SocialHandler) SetPhotoVisibility(c *gin.Context) {
	var req models.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	err := h.visibility.SetVisibilityTier(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("photoId"), req.Visibility)
	if err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Visibility updated", Data: req.Visibility})
}

// Follow handles POST /users/:userId/follow
func (h *SocialHandler) Follow(c *gin.Context) {
	if err := h.visibility.Follow(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("userId")); err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Following"})
}

// Unfollow handles DELETE /users/:userId/follow
func (h *SocialHandler) Unfollow(c *gin.Context) {
	if err := h.visibility.Unfollow(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("userId")); err != nil {
		respondWithError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
