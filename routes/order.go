package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Hackerette0/ecommerce--ly/controllers/order"
	"github.com/Hackerette0/ecommerce--ly/middleware"
)

// SetupOrderRoutes registers checkout and order management endpoints.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, gw orderControllers.PaymentGateway) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Checkout: open a gateway payment session for the cart total
		orders.POST("/pay", orderControllers.PaySessionHandler(db, gw))

		// Finalize: verified payment -> persisted order + cleared cart
		orders.POST("", orderControllers.FinalizeOrderHandler(db, gw))

		// Order history for the caller
		orders.GET("", orderControllers.GetMyOrdersHandler(db))

		adminOnly := orders.Group("")
		adminOnly.Use(middleware.RequireAdmin)
		{
			adminOnly.GET("/all", orderControllers.GetAllOrdersHandler(db))
			adminOnly.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			adminOnly.GET("/ws", orderControllers.OrderFeedHandler)
			adminOnly.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
		}
	}
}
