package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsRecorder receives one observation per completed request.
type HTTPMetricsRecorder interface {
	RecordHTTPRequest(method, route string, status int, latency time.Duration)
}

// MetricsMiddleware records request counts and latency keyed by route template.
func MetricsMiddleware(recorder HTTPMetricsRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
