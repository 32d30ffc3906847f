package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodVisa   PaymentMethod = "visa"
	MethodPayPal PaymentMethod = "paypal"
	MethodFawry  PaymentMethod = "fawry"
	MethodWallet PaymentMethod = "wallet"
)

type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionSuccess TransactionStatus = "success"
	TransactionFailed  TransactionStatus = "failed"
)

// Transaction records one payment attempt. Amount is snapshotted from the
// order total when the transaction is recorded and never recomputed, even if
// the order's totals change afterwards.
type Transaction struct {
	ID          uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	User        User              `gorm:"foreignKey:UserID" json:"-"`
	OrderID     *uint             `gorm:"index" json:"order_id"`
	Order       *Order            `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Amount      decimal.Decimal   `gorm:"type:decimal(10,2)" json:"amount"`
	Method      PaymentMethod     `gorm:"type:VARCHAR(20);not null" json:"method"`
	Status      TransactionStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ReferenceID string            `gorm:"uniqueIndex;size:100" json:"reference_id"`
	CreatedAt   time.Time         `json:"created_at"`
}
