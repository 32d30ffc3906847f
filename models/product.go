package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyID   uint            `gorm:"not null;index:idx_products_company_created" json:"company_id"`
	Company     Company         `gorm:"foreignKey:CompanyID" json:"-"`
	VendorID    uint            `gorm:"not null;index" json:"vendor_id"`
	Vendor      User            `gorm:"foreignKey:VendorID" json:"-"`
	CategoryID  *uint           `json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string          `gorm:"not null" json:"name"`
	Slug        string          `gorm:"uniqueIndex;size:255" json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Discount    decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount"` // percentage, 0-100
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"index:idx_products_company_created" json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DiscountedPrice is the unit price after the percentage discount.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.Discount.IsPositive() {
		off := p.Price.Mul(p.Discount).Div(decimal.NewFromInt(100))
		return p.Price.Sub(off)
	}
	return p.Price
}

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;size:255" json:"slug"`
	Description string    `json:"description"`
	ParentID    *uint     `json:"parent_id"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"-"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"-"`
	Rating    float64   `gorm:"not null" json:"rating"` // 1.0 - 5.0
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
