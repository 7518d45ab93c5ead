package routes

import (
	"net/http"

	"tasktrail/tasktrail/services"
	"tasktrail/tasktrail/utils/token"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes exposes the event stream endpoint. The token may
// arrive as a query parameter since browsers cannot set headers on websocket
// upgrades.
func RegisterWebSocketRoutes(router *gin.Engine, jwtSecret []byte, wsService services.WebSocketServiceInterface) {
	router.GET("/ws", func(c *gin.Context) {
		claims, err := token.ExtractAndValidateToken(c, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		wsService.HandleConnection(c)
	})
}
