package middleware

import (
	"net/http"
	"strings"

	"slotfinder/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware requires a bearer token signed with secret. An empty
// secret disables the check.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Success: false, Error: "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		caller, err := utils.ValidateToken([]byte(secret), tokenString)
		if err != nil {
			LoggerFrom(c).Warn("rejected api token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Success: false, Error: "Invalid token"})
			return
		}

		c.Set("caller", caller)
		c.Next()
	}
}
