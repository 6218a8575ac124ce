package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ksumarshmallow/calbot/internal/logger"
)

// RequestID attaches a request id to the context logger so every log line
// of one request can be correlated
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		ctx := logger.WithField(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AccessLog writes one line per handled request
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Infof(c.Request.Context(), "%s %s -> %d",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}
