package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/lasazonmanaba/ordering-app/utils"
)

// WebSocketAuthMiddleware authenticates socket upgrades via a query token,
// since browsers cannot set headers on websocket requests.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}
