package apperrors

import (
	"net/http"

	"omnisnt_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// HandleError writes an AppError as the JSON response. Unknown error types
// are logged and surfaced as a generic 500 so internals never leak.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if As(err, &appErr) {
		if appErr.HTTPCode >= http.StatusInternalServerError {
			logger.CtxWithError(c.Request.Context(), "internal error", appErr, "path", c.Request.URL.Path)
		}
		c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
		return
	}

	logger.CtxWithError(c.Request.Context(), "unhandled error", err, "path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": InternalError(err),
	})
}
