package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quochao170402/ecommerce-aws/items-api/internal/metrics"
)

// Metrics records request counts and latencies by route template.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
