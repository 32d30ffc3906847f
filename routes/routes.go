package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) {
	// Public catalog routes (no middleware)
	SetupProductRoutes(r, db, log)

	// Order routes (JWT-protected)
	SetupOrderRoutes(r, db, log)

	// Payment routes (JWT-protected + gateway webhook)
	SetupTransactionRoutes(r, db, log)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, log)
}
