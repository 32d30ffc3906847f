package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // placed, awaiting payment
	OrderStatusPaid      OrderStatus = "paid"      // payment confirmed
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusCompleted OrderStatus = "completed" // customer received the items
	OrderStatusCancelled OrderStatus = "cancelled" // cancelled before shipping
)

// Order aggregates are owned by the settlement engine in controllers/order.
// ItemsTotal, DiscountAmount, TotalAfterDiscount and TotalAmount are only
// ever written by a recompute over the order's live lines; nothing else may
// set them.
type Order struct {
	ID                 uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID         uint             `gorm:"not null;index" json:"customer_id"`
	Customer           User             `gorm:"foreignKey:CustomerID" json:"-"`
	CompanyID          uint             `gorm:"not null;index" json:"company_id"`
	Company            Company          `gorm:"foreignKey:CompanyID" json:"-"`
	Governorate        string           `gorm:"type:VARCHAR(50)" json:"governorate"`
	Address            string           `json:"address"`
	Latitude           *decimal.Decimal `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude          *decimal.Decimal `gorm:"type:decimal(9,6)" json:"longitude"`
	ShippingCost       decimal.Decimal  `gorm:"type:decimal(10,2)" json:"shipping_cost"`
	ItemsTotal         decimal.Decimal  `gorm:"type:decimal(10,2)" json:"items_total"`
	DiscountAmount     decimal.Decimal  `gorm:"type:decimal(10,2)" json:"discount_amount"`
	TotalAfterDiscount decimal.Decimal  `gorm:"type:decimal(10,2)" json:"total_after_discount"`
	TotalAmount        decimal.Decimal  `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status             OrderStatus      `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Items              []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt          time.Time        `json:"created_at"`
}

// OrderItem carries a price snapshot frozen when the line is created or
// re-priced. Price is product price x quantity at that moment; later product
// price changes do not flow back into existing lines.
type OrderItem struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            uint            `gorm:"not null;index" json:"order_id"`
	ProductID          uint            `gorm:"not null" json:"product_id"`
	Product            Product         `gorm:"foreignKey:ProductID" json:"product"`
	Quantity           int             `gorm:"not null" json:"quantity"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
	TotalAfterDiscount decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_after_discount"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
