package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Hackerette0/ecommerce--ly/controllers/cart"
	"github.com/Hackerette0/ecommerce--ly/middleware"
)

// SetupCartRoutes registers all "/cart/*" endpoints. Requires JWT middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken)
	{
		cartGroup.POST("/add", cartControllers.AddToCart(db))
		cartGroup.GET("", cartControllers.GetCart(db))
	}
}
