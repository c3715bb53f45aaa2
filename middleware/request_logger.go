package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yusimeilanyy/intern-project/pkg/logger"
)

// RequestLogger logs each request after the handler chain finishes.
// request_id, username and role come from the request context via the
// logger package rather than explicit attributes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}

		// Read the context after c.Next so auth has had a chance to
		// stamp the user onto it.
		log := logger.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			log.Error("request completed", attrs...)
		case status >= 400:
			log.Warn("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	}
}
