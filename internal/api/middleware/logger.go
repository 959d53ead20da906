package middleware

import (
	"log/slog"
	"time"

	"powerview/internal/observability"

	"github.com/gin-gonic/gin"
)

// Logger logs every request and records its duration in metrics (which may be nil).
func Logger(logger *slog.Logger, metrics *observability.Metrics) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.ObserveRequest(route, c.Writer.Status(), elapsed)
		logger.Info("request",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", elapsed,
			"client_ip", c.ClientIP(),
		)
	}
}
