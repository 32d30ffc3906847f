package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	notificationControllers "github.com/ahmed50f/new-commerce/controllers/notification"
	transactionControllers "github.com/ahmed50f/new-commerce/controllers/transaction"
	"github.com/ahmed50f/new-commerce/middleware"
)

func SetupTransactionRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) {
	transactions := r.Group("/transactions")
	transactions.Use(middleware.ValidateToken(db))
	{
		transactions.POST("/", transactionControllers.RecordTransactionHandler(db, log))
		transactions.GET("/", transactionControllers.GetMyTransactionsHandler(db))
		transactions.DELETE("/:transactionID", transactionControllers.DeleteTransactionHandler(db))
	}

	// Webhook endpoint: middleware verifies the gateway signature
	r.POST("/payments/webhook",
		middleware.GatewayWebhookAuth(),
		transactionControllers.GatewayCallbackHandler(db, log),
	)

	notifications := r.Group("/notifications")
	notifications.Use(middleware.ValidateToken(db))
	{
		notifications.GET("/", notificationControllers.GetMyNotificationsHandler(db))
		notifications.PUT("/:notificationID/read", notificationControllers.MarkNotificationReadHandler(db))
	}
}
