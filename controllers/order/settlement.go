package orderControllers

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmed50f/new-commerce/models"
	"github.com/ahmed50f/new-commerce/shipping"
)

var (
	// ErrEmptyOrder rejects order creation with no line items.
	ErrEmptyOrder = errors.New("order must contain at least one item")

	// ErrInvalidQuantity rejects a line quantity below 1, on every path
	// that can write a line.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrInsufficientStock rejects a line whose quantity exceeds the
	// product's current stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrProductCompanyMismatch rejects a line whose product is sold by a
	// different company than the order's.
	ErrProductCompanyMismatch = errors.New("product does not belong to the order's company")

	// ErrOrderNotOwned rejects order or payment mutations by a user who
	// neither placed the order nor belongs to its company.
	ErrOrderNotOwned = errors.New("order does not belong to this user")
)

// OrderLineInput is one product+quantity entry in a create-order request.
type OrderLineInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

var oneHundred = decimal.NewFromInt(100)

// upsertLine creates or re-prices a single line on the order, inside tx.
//
// On first creation the line freezes its snapshot (price = product price x
// quantity, discount from the product's current percentage) and takes stock
// exactly once. Later updates re-freeze the snapshot from the product's
// current price and discount but never touch stock again.
//
// The caller must run settleOrder afterwards; upsertLine itself only writes
// the line and the product.
func upsertLine(tx *gorm.DB, order *models.Order, productID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	var product models.Product
	if err := tx.First(&product, productID).Error; err != nil {
		return nil, err
	}
	if product.CompanyID != order.CompanyID {
		return nil, fmt.Errorf("%w: product %q belongs to company %d, order is with company %d",
			ErrProductCompanyMismatch, product.Name, product.CompanyID, order.CompanyID)
	}
	// Stock sufficiency is validated before branching on create vs update,
	// so raising an existing line past what is left fails the same way a
	// new line would.
	if product.Stock < quantity {
		return nil, fmt.Errorf("%w: product %q has %d left, requested %d",
			ErrInsufficientStock, product.Name, product.Stock, quantity)
	}

	price := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
	discount := decimal.Zero
	if product.Discount.IsPositive() {
		discount = price.Mul(product.Discount).Div(oneHundred)
	}

	var item models.OrderItem
	err := tx.Where("order_id = ? AND product_id = ?", order.ID, productID).First(&item).Error
	switch {
	case err == nil:
		// Existing line: re-price only. Stock was already taken when the
		// line was first created.
		item.Quantity = quantity
		item.Price = price
		item.DiscountAmount = discount
		item.TotalAfterDiscount = price.Sub(discount)
		if err := tx.Save(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Conditional decrement closes the window between the check above
		// and two concurrent creations racing on the same product: only one
		// of them matches stock >= quantity.
		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, quantity).
			UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: product %q", ErrInsufficientStock, product.Name)
		}

		item = models.OrderItem{
			OrderID:            order.ID,
			ProductID:          product.ID,
			Quantity:           quantity,
			Price:              price,
			DiscountAmount:     discount,
			TotalAfterDiscount: price.Sub(discount),
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil

	default:
		return nil, err
	}
}

// settleOrder recomputes the order aggregates from its live lines and, when
// includeShipping is set, refreshes the shipping fee and coordinates from
// the governorate table. This is the only writer of items_total,
// discount_amount, total_after_discount and total_amount.
func settleOrder(tx *gorm.DB, order *models.Order, includeShipping bool) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		return err
	}

	itemsTotal := decimal.Zero
	discountTotal := decimal.Zero
	for _, it := range items {
		itemsTotal = itemsTotal.Add(it.Price)
		discountTotal = discountTotal.Add(it.DiscountAmount)
	}

	order.ItemsTotal = itemsTotal
	order.DiscountAmount = discountTotal
	order.TotalAfterDiscount = itemsTotal.Sub(discountTotal)

	if includeShipping {
		cost, coords := shipping.Lookup(order.Governorate)
		order.ShippingCost = cost
		if coords != nil {
			lat, lng := coords.Latitude, coords.Longitude
			order.Latitude, order.Longitude = &lat, &lng
		} else {
			order.Latitude, order.Longitude = nil, nil
		}
	}

	order.TotalAmount = order.TotalAfterDiscount.Add(order.ShippingCost)
	order.Items = items
	return tx.Omit(clause.Associations).Save(order).Error
}

// canMutateOrder implements the ownership rule: the customer who placed the
// order, a vendor of the order's company, or an admin.
func canMutateOrder(order *models.Order, userID uint, role models.Role, companyID *uint) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleVendor:
		return companyID != nil && *companyID == order.CompanyID
	default:
		return order.CustomerID == userID
	}
}

// CreateOrder places a new order with its initial lines, prices every line,
// takes stock and settles the totals, all in one transaction. Orders with no
// lines are rejected before anything is written.
func CreateOrder(db *gorm.DB, customerID, companyID uint, governorate, address string, lines []OrderLineInput) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		var company models.Company
		if err := tx.First(&company, companyID).Error; err != nil {
			return err
		}

		order = models.Order{
			CustomerID:  customerID,
			CompanyID:   companyID,
			Governorate: governorate,
			Address:     address,
			Status:      models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, line := range lines {
			if _, err := upsertLine(tx, &order, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}
		return settleOrder(tx, &order, true)
	})
	if err != nil {
		return nil, err
	}

	BroadcastOrderSettled(order)
	return &order, nil
}

// AddOrUpdateLine adds a product to an order or changes the quantity of an
// existing line, then re-settles the order. One transaction end to end.
func AddOrUpdateLine(db *gorm.DB, userID uint, role models.Role, userCompanyID *uint, orderID, productID uint, quantity int) (*models.OrderItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	var item *models.OrderItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if !canMutateOrder(&order, userID, role, userCompanyID) {
			return fmt.Errorf("%w: order %d", ErrOrderNotOwned, order.ID)
		}

		var err error
		item, err = upsertLine(tx, &order, productID, quantity)
		if err != nil {
			return err
		}
		return settleOrder(tx, &order, true)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteLine removes a line from its order and re-settles the totals.
// Stock is intentionally not returned to the product: fulfilment and refund
// flows own stock reconciliation, not the order editor.
func DeleteLine(db *gorm.DB, userID uint, role models.Role, userCompanyID *uint, itemID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var item models.OrderItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}
		var order models.Order
		if err := tx.First(&order, item.OrderID).Error; err != nil {
			return err
		}
		if !canMutateOrder(&order, userID, role, userCompanyID) {
			return fmt.Errorf("%w: order %d", ErrOrderNotOwned, order.ID)
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		return settleOrder(tx, &order, true)
	})
}

// UpdateOrder applies order-level changes (governorate, address, status) and
// re-settles so the shipping fee and coordinates follow the governorate.
// Status values are set as given; transition rules are an admin concern.
func UpdateOrder(db *gorm.DB, orderID uint, governorate, address *string, status *models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}
		if governorate != nil {
			order.Governorate = *governorate
		}
		if address != nil {
			order.Address = *address
		}
		if status != nil {
			order.Status = *status
		}
		return settleOrder(tx, &order, true)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
