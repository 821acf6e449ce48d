package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productControllers "github.com/Hackerette0/ecommerce--ly/controllers/product"
	"github.com/Hackerette0/ecommerce--ly/middleware"
)

// SetupProductRoutes registers the public catalog plus seller management.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/:id", productControllers.GetProductByID(db))

		sellerOnly := products.Group("")
		sellerOnly.Use(middleware.ValidateToken, middleware.RequireSeller)
		{
			sellerOnly.POST("", productControllers.CreateProduct(db))
			sellerOnly.PUT("/:id", productControllers.UpdateProduct(db))
			sellerOnly.DELETE("/:id", productControllers.DeleteProduct(db))
		}
	}
}
