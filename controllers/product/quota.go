package productcontroller

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/models"
)

// ErrQuotaExceeded rejects product creation once a company has used up its
// plan's monthly allowance.
var ErrQuotaExceeded = errors.New("monthly product quota exceeded")

// CheckQuota enforces the company's monthly product-creation allowance
// inside tx. It counts the company's products created in the same calendar
// month as at, excluding excludeProductID (relevant on update paths), and
// fails when the count has already reached the plan limit. Unlimited plans
// always pass.
//
// Must run in the same transaction as the insert it guards. The no-op write
// on the company row serializes two concurrent creations for the same
// company: the second blocks on the row until the first commits its product,
// so both counts cannot pass together.
func CheckQuota(tx *gorm.DB, companyID, excludeProductID uint, at time.Time) error {
	var company models.Company
	if err := tx.First(&company, companyID).Error; err != nil {
		return err
	}
	limit := models.PlanLimit(company.SubscriptionPlan)
	if limit == nil {
		return nil
	}

	if err := tx.Model(&models.Company{}).
		Where("id = ?", companyID).
		UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
		return err
	}

	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := tx.Model(&models.Product{}).
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, monthStart, monthEnd)
	if excludeProductID != 0 {
		query = query.Where("id <> ?", excludeProductID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count >= int64(*limit) {
		return fmt.Errorf("%w: the %s plan allows %d products per month",
			ErrQuotaExceeded, company.SubscriptionPlan, *limit)
	}
	return nil
}

// CreateProduct inserts a new product behind the quota gate, as one
// transaction. Edits of existing products do not pass through here and are
// not quota-checked.
func CreateProduct(db *gorm.DB, product *models.Product) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := CheckQuota(tx, product.CompanyID, 0, time.Now()); err != nil {
			return err
		}
		return tx.Create(product).Error
	})
}
