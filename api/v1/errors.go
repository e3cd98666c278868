package v1

import (
	"errors"
	"net/http"
	"time"

	"kraft/internal/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps a service error to the HTTP error body. Validation,
// not-found and permission errors carry their own message; anything else is
// logged and returned as a generic 500 so internals never leak.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, errs.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, errs.ErrPermissionDenied):
		status = http.StatusForbidden
		message = err.Error()
	default:
		zap.L().Error("unexpected error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{
		"status":    status,
		"error":     http.StatusText(status),
		"message":   message,
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UnixMilli(),
	})
}

// writeBindError reports a request-binding failure as a 400 in the same body
// shape as writeError.
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":    http.StatusBadRequest,
		"error":     http.StatusText(http.StatusBadRequest),
		"message":   err.Error(),
		"path":      c.Request.URL.Path,
		"timestamp": time.Now().UnixMilli(),
	})
}
