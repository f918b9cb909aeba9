package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the failure body shared by every endpoint.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// panicResponse is what a caller sees when a handler panics.
var panicResponse = ErrorResponse{
	Success: false,
	Error:   "Internal Server Error",
	Details: "An unexpected error occurred. Please try again later.",
}

// PanicRecovery converts a handler panic into a 500 carrying ErrorResponse.
// The log entry includes the request id header so it can be joined with the
// access log line.
func PanicRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			GetLogger().Error("handler panic",
				zap.Any("panic", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("requestID", c.Writer.Header().Get("X-Request-ID")),
				zap.Stack("stack"))
			c.AbortWithStatusJSON(http.StatusInternalServerError, panicResponse)
		}()
		c.Next()
	}
}
