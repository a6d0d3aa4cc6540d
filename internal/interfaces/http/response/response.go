package response

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "assembly-directory.backend/internal/domain/errors"
	"assembly-directory.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Errors that are not an AppError are reported
// as a generic server error and only logged in full.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.AsAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		ctx := context.Background()
		path := ""
		if c.Request != nil {
			ctx = c.Request.Context()
			path = c.Request.URL.Path
		}
		logger.Error(ctx, "Request failed", zap.String("path", path), zap.Error(err))
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// AbortWithError sends an error response and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
