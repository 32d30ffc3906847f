package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/middleware"
	"github.com/ahmed50f/new-commerce/models"
	"github.com/ahmed50f/new-commerce/shipping"
)

// -------- Request Structs --------

type CreateOrderRequest struct {
	CompanyID   uint             `json:"company_id" binding:"required"`
	Governorate string           `json:"governorate"`
	Address     string           `json:"address"`
	Items       []OrderLineInput `json:"items" binding:"required,dive"`
}

type UpdateOrderRequest struct {
	Governorate *string `json:"governorate"`
	Address     *string `json:"address"`
	Status      *string `json:"status"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(status) {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusShipped,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
		return models.OrderStatus(status), nil
	default:
		return "", errors.New("invalid order status")
	}
}

func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOrderNotOwned):
		return http.StatusForbidden
	case errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrProductCompanyMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// -------- Handlers --------

// CreateOrderHandler places an order for the authenticated customer.
func CreateOrderHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := CreateOrder(db, ident.UserID, req.CompanyID, req.Governorate, req.Address, req.Items)
		if err != nil {
			log.Warn("order creation rejected",
				zap.Uint("customer_id", ident.UserID),
				zap.Uint("company_id", req.CompanyID),
				zap.Error(err))
			c.JSON(orderErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		log.Info("order settled",
			zap.Uint("order_id", order.ID),
			zap.String("total_amount", order.TotalAmount.String()))
		c.JSON(http.StatusCreated, order)
	}
}

// GetAllOrdersHandler lists every order, newest first (admin).
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("Customer").
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetMyOrdersHandler lists the caller's orders: customers see orders they
// placed, vendors see their company's orders.
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		query := db.
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC")

		if ident.Role == models.RoleVendor {
			if ident.CompanyID == nil {
				c.JSON(http.StatusForbidden, gin.H{"error": "Vendors must be linked to a company"})
				return
			}
			query = query.Where("company_id = ?", *ident.CompanyID)
		} else {
			query = query.Where("customer_id = ?", ident.UserID)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler returns one order with its lines.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
			return
		}

		var order models.Order
		if err := db.
			Preload("Items").
			Preload("Items.Product").
			First(&order, uint(orderID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderHandler changes governorate/address/status and re-settles.
// Only the customer who placed the order, a vendor of its company or an
// admin may apply changes.
func UpdateOrderHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
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

		var existing models.Order
		if err := db.First(&existing, uint(orderID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canMutateOrder(&existing, ident.UserID, ident.Role, ident.CompanyID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to edit this order"})
			return
		}

		var req UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var status *models.OrderStatus
		if req.Status != nil {
			mapped, err := mapOrderStatus(*req.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status = &mapped
		}

		order, err := UpdateOrder(db, uint(orderID), req.Governorate, req.Address, status)
		if err != nil {
			c.JSON(orderErrorStatus(err), gin.H{"error": err.Error()})
			return
		}

		log.Info("order updated", zap.Uint("order_id", order.ID), zap.String("status", string(order.Status)))
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrderHandler removes an order and, via the cascade, its lines.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
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

		var order models.Order
		if err := db.First(&order, uint(orderID)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if !canMutateOrder(&order, ident.UserID, ident.Role, ident.CompanyID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this order"})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// GovernoratesHandler returns the supported governorates for checkout forms.
func GovernoratesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		type entry struct {
			Name        string                `json:"name"`
			Cost        string                `json:"cost"`
			Coordinates *shipping.Coordinates `json:"coordinates"`
		}
		names := shipping.Governorates()
		out := make([]entry, 0, len(names))
		for _, name := range names {
			cost, coords := shipping.Lookup(name)
			out = append(out, entry{Name: name, Cost: cost.String(), Coordinates: coords})
		}
		c.JSON(http.StatusOK, out)
	}
}
