package introspect

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locator/logger"
)

// RequestLogger logs every request with method, path, status and latency.
// Health checks are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == PathHealth {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": status,
			"client": c.ClientIP(),
		}
		fields[logger.FieldDuration] = latency.Milliseconds()

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}
