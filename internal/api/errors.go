package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wanderlist-backend-go/internal/core"
)

// statusForError maps core errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrAuthorizationDenied):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondWithError writes the ErrorResponse for err. Internal errors are logged and
// their details withheld from the client.
func respondWithError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Internal Server Error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "An unexpected internal server error occurred."})
		return
	}
	c.JSON(status, ErrorResponse{Error: http.StatusText(status), Details: err.Error()})
}

func badRequest(c *gin.Context, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}
