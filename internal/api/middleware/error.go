package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"powerview/internal/api/models"

	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers panics into an INTERNAL_ERROR response
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("panic while serving request", "path", c.Request.URL.Path, "panic", fmt.Sprint(recovered))
		message := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			message = s
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: message,
			},
		})
	})
}
