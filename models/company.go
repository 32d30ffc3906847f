package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanBasic   SubscriptionPlan = "basic"
	PlanPremium SubscriptionPlan = "premium"
)

// PlanPrice returns the monthly subscription price for a plan. The stored
// Company.PlanPrice column is always derived from this, never set by callers.
func PlanPrice(plan SubscriptionPlan) decimal.Decimal {
	switch plan {
	case PlanBasic:
		return decimal.NewFromInt(100)
	case PlanPremium:
		return decimal.NewFromInt(300)
	default:
		return decimal.Zero
	}
}

// PlanLimit returns how many products a company may create per calendar
// month under a plan. nil means unlimited.
func PlanLimit(plan SubscriptionPlan) *int {
	switch plan {
	case PlanFree:
		limit := 10
		return &limit
	case PlanBasic:
		limit := 100
		return &limit
	default:
		return nil
	}
}

type Company struct {
	ID               uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string           `gorm:"not null" json:"name"`
	TaxNumber        string           `json:"tax_number"`
	Address          string           `json:"address"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:VARCHAR(20);default:'free'" json:"subscription_plan"`
	PlanPrice        decimal.Decimal  `gorm:"type:decimal(10,2)" json:"plan_price"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// BeforeSave keeps the stored plan price in sync with the subscription plan.
func (co *Company) BeforeSave(tx *gorm.DB) error {
	if co.SubscriptionPlan == "" {
		co.SubscriptionPlan = PlanFree
	}
	co.PlanPrice = PlanPrice(co.SubscriptionPlan)
	return nil
}
