package transactionControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	orderControllers "github.com/ahmed50f/new-commerce/controllers/order"
	"github.com/ahmed50f/new-commerce/models"
)

// ApplyGatewayResult flips a pending transaction to success or failed based
// on the payment gateway's callback, and queues the notification for the
// paying user. Notification delivery is best effort; the status change is
// the record of truth.
func ApplyGatewayResult(db *gorm.DB, transactionID uint, status models.TransactionStatus) (*models.Transaction, error) {
	if status != models.TransactionSuccess && status != models.TransactionFailed {
		return nil, fmt.Errorf("invalid gateway status %q", status)
	}

	var txn models.Transaction
	if err := db.First(&txn, transactionID).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&txn).Update("status", status).Error; err != nil {
		return nil, err
	}
	txn.Status = status

	if txn.OrderID != nil {
		title := "Payment Successful"
		message := fmt.Sprintf("Your payment for Order #%d was successful.", *txn.OrderID)
		if status == models.TransactionFailed {
			title = "Payment Failed"
			message = fmt.Sprintf("Your payment for Order #%d has failed. Please try again.", *txn.OrderID)
		}
		_ = db.Create(&models.Notification{
			UserID:  txn.UserID,
			Title:   title,
			Message: message,
		}).Error

		if status == models.TransactionSuccess {
			paid := models.OrderStatusPaid
			if _, err := orderControllers.UpdateOrder(db, *txn.OrderID, nil, nil, &paid); err != nil {
				return nil, fmt.Errorf("payment %d succeeded but order %d could not be marked paid: %w",
					txn.ID, *txn.OrderID, err)
			}
		}
	}

	orderControllers.BroadcastPaymentResult(txn)
	return &txn, nil
}

// GatewayCallbackHandler receives {transaction_id, status} from the payment
// gateway webhook.
func GatewayCallbackHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	type request struct {
		TransactionID uint   `json:"transaction_id" binding:"required"`
		Status        string `json:"status" binding:"required"`
	}
	return func(c *gin.Context) {
		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		txn, err := ApplyGatewayResult(db, req.TransactionID, models.TransactionStatus(req.Status))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		log.Info("gateway result applied",
			zap.Uint("transaction_id", txn.ID),
			zap.String("status", string(txn.Status)))
		c.JSON(http.StatusOK, gin.H{"success": true, "status": txn.Status})
	}
}
