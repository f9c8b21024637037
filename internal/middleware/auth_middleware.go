package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
	"wanderlist-backend-go/internal/models"
)

// PrincipalKey is the gin context key holding the resolved *models.Principal.
const PrincipalKey = "principal"

// ErrorResponse mirrors api.ErrorResponse; defined here to avoid an import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware resolves bearer tokens to principals through the AuthGuard.
type AuthMiddleware struct {
	guard  core.AuthGuard
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. It panics if guard is nil.
func NewAuthMiddleware(guard core.AuthGuard, logger *zap.Logger) *AuthMiddleware {
	if guard == nil {
		panic("AuthGuard is not initialized for AuthMiddleware")
	}
	return &AuthMiddleware{guard: guard, logger: logger}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid token with 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}
		principal, err := m.guard.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, core.ErrAuthenticationRequired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
				return
			}
			m.logger.Error("Failed to resolve principal", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
			return
		}
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves a token when one is present. Requests without a usable
// token continue anonymously instead of failing.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			principal, err := m.guard.ResolvePrincipal(c.Request.Context(), token)
			if err == nil {
				c.Set(PrincipalKey, principal)
			} else {
				m.logger.Debug("Continuing anonymously", zap.Error(err))
			}
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal set by RequireAuth or OptionalAuth, or nil.
func PrincipalFrom(c *gin.Context) *models.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*models.Principal)
	return principal
}
