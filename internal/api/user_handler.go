package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlist-backend-go/internal/middleware"
)

// UserHandler handles API endpoints related to the calling user.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// InitializeUser handles POST /users/initialize. The auth middleware has already
// resolved (and on first use created) the principal; this returns it.
func (h *UserHandler) InitializeUser(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not found in context"})
		return
	}
	c.JSON(http.StatusOK, principal)
}
