package middleware

import (
	"time"

	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID keeps a caller-supplied request id or assigns a ULID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = security.GenerateULID()
		}
		c.Set("requestId", id)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Metrics records request counts and latency per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), start)
	}
}

// RequestLogger logs each request on the system channel, server errors at
// error level.
func RequestLogger(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		log := logger.WithContext(logging.ChannelSystem, c.Request.Context())
		switch {
		case status >= 500:
			log.Error("Request failed", args...)
		case status >= 400:
			log.Debug("Request rejected", args...)
		default:
			log.Debug("Request served", args...)
		}
	}
}
