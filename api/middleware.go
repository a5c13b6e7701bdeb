package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-dashboard/utils"
)

const (
	traceIDHeader = "X-Trace-Id"
	traceIDKey    = "trace_id"
)

// Tracing adds a trace ID to the request context and the response headers.
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set(traceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// TraceID returns the trace ID set by Tracing, or "" outside it.
func TraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

// RequestLogger logs each request entry and exit with status, duration and trace ID.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := TraceID(c)
		if traceID == "" {
			traceID = "no-trace-id"
		}
		z := logger.Zerolog()
		start := time.Now()
		z.Debug().Str("trace_id", traceID).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Entering request")

		c.Next()

		event := z.Info()
		if c.Writer.Status() >= 500 {
			event = z.Error()
		}
		event.Str("trace_id", traceID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64("ms", time.Since(start).Milliseconds()).
			Msg("Exiting request")
	}
}
