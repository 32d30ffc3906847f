package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/middleware"
)

type UpsertLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// AddOrUpdateLineHandler adds a product to an order or changes an existing
// line's quantity, then re-settles the order totals.
func AddOrUpdateLineHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
			return
		}

		var req UpsertLineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item, err := AddOrUpdateLine(db, ident.UserID, ident.Role, ident.CompanyID,
			uint(orderID), req.ProductID, req.Quantity)
		if err != nil {
			log.Warn("line upsert rejected",
				zap.Uint64("order_id", orderID),
				zap.Uint("product_id", req.ProductID),
				zap.Error(err))
			c.JSON(orderErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DeleteLineHandler removes a line and re-settles the order. Stock is not
// restored; see DeleteLine.
func DeleteLineHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		itemID, err := strconv.ParseUint(c.Param("itemID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid itemID"})
			return
		}

		if err := DeleteLine(db, ident.UserID, ident.Role, ident.CompanyID, uint(itemID)); err != nil {
			c.JSON(orderErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		log.Info("order line deleted", zap.Uint64("item_id", itemID))
		c.JSON(http.StatusOK, gin.H{"message": "Order item deleted"})
	}
}
