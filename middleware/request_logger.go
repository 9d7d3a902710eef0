package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

// RequestLogger emits one structured log line per completed request.
func RequestLogger(logger outbound.LoggerPort) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoWithFields("request completed", map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
}
