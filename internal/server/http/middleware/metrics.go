package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/febryan/qrispay/internal/metrics"
)

// CollectMetrics records per-route request counts and latencies. Unmatched
// routes are grouped under a single label to keep cardinality bounded.
func CollectMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPLatency.WithLabelValues(handler).Observe(time.Since(start).Seconds())
	}
}
