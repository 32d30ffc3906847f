package transactionControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	orderControllers "github.com/ahmed50f/new-commerce/controllers/order"
	"github.com/ahmed50f/new-commerce/middleware"
	"github.com/ahmed50f/new-commerce/models"
)

const referenceLength = 12

// newReferenceID generates an uppercase alphanumeric payment reference.
func newReferenceID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:referenceLength])
}

func mapPaymentMethod(method string) (models.PaymentMethod, error) {
	switch models.PaymentMethod(method) {
	case models.MethodVisa, models.MethodPayPal, models.MethodFawry, models.MethodWallet:
		return models.PaymentMethod(method), nil
	default:
		return "", errors.New("invalid payment method")
	}
}

// RecordTransaction opens a payment attempt against an order. The amount is
// snapshotted from the order's settled total at this moment; later changes
// to the order do not touch it. The generated reference is retried on the
// rare collision with an existing one.
func RecordTransaction(db *gorm.DB, userID, orderID uint, method models.PaymentMethod) (*models.Transaction, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, err
	}
	if order.CustomerID != userID {
		return nil, fmt.Errorf("%w: order %d", orderControllers.ErrOrderNotOwned, order.ID)
	}

	txn := models.Transaction{
		UserID:  userID,
		OrderID: &order.ID,
		Amount:  order.TotalAmount,
		Method:  method,
		Status:  models.TransactionPending,
	}
	for attempt := 0; attempt < 3; attempt++ {
		txn.ReferenceID = newReferenceID()
		err := db.Create(&txn).Error
		if err == nil {
			return &txn, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a unique payment reference")
}

// RecordTransactionHandler records a payment attempt for the caller's order.
func RecordTransactionHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	type request struct {
		OrderID uint   `json:"order_id" binding:"required"`
		Method  string `json:"method" binding:"required"`
	}
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		method, err := mapPaymentMethod(req.Method)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		txn, err := RecordTransaction(db, ident.UserID, req.OrderID, method)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case errors.Is(err, orderControllers.ErrOrderNotOwned):
				c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		log.Info("transaction recorded",
			zap.Uint("transaction_id", txn.ID),
			zap.String("reference_id", txn.ReferenceID),
			zap.String("amount", txn.Amount.String()))
		c.JSON(http.StatusCreated, txn)
	}
}

// GetMyTransactionsHandler lists the caller's transactions, newest first.
func GetMyTransactionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var txns []models.Transaction
		if err := db.
			Where("user_id = ?", ident.UserID).
			Order("created_at DESC").
			Find(&txns).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, txns)
	}
}

// DeleteTransactionHandler removes one of the caller's own transactions.
func DeleteTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var txn models.Transaction
		if err := db.First(&txn, c.Param("transactionID")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		if txn.UserID != ident.UserID && !ident.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this transaction"})
			return
		}

		if err := db.Delete(&txn).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete transaction"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
	}
}
