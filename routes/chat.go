package routes

import (
	"github.com/gin-gonic/gin"

	chatControllers "github.com/Hackerette0/ecommerce--ly/controllers/chat"
)

// SetupChatRoutes registers the AI shopping assistant proxy.
func SetupChatRoutes(r *gin.Engine) {
	r.POST("/chat", chatControllers.ChatHandler())
}
