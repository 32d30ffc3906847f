package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	orderControllers "github.com/ahmed50f/new-commerce/controllers/order"
	"github.com/ahmed50f/new-commerce/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(db))
	{
		// Create a new order with its initial line items
		orders.POST("/", orderControllers.CreateOrderHandler(db, log))

		// Fetch the caller's orders (customer or vendor scoped)
		orders.GET("/", orderControllers.GetMyOrdersHandler(db))

		// Fetch a single order
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Update governorate/address/status (re-settles totals)
		orders.PUT("/:orderID", orderControllers.UpdateOrderHandler(db, log))

		// Delete an order and its lines
		orders.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))

		// Add a product or change a line's quantity
		orders.POST("/:orderID/items", orderControllers.AddOrUpdateLineHandler(db, log))

		// Remove a line (stock is not restored)
		orders.DELETE("/items/:itemID", orderControllers.DeleteLineHandler(db, log))
	}

	// Shipping table for checkout forms
	r.GET("/governorates", orderControllers.GovernoratesHandler())

	// websocket endpoint for real-time order/payment events
	r.GET("/ws/events", orderControllers.EventsWebSocketHandler)
}
