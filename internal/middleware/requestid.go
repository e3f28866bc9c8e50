package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maplecart/storefront-backend/internal/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID stamps every request with an id and logs the request line with
// it, so log entries from one request can be stitched together.
func RequestID(log *logger.Logger) gin.HandlerFunc {
	requestLog := log.With("middleware", "RequestID")
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Writer.Header().Set(RequestIDHeader, requestID)
		requestLog.Debug("Request received",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Next()
	}
}
