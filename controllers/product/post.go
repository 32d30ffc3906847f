package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/middleware"
	"github.com/ahmed50f/new-commerce/models"
)

type CreateProductRequest struct {
	CompanyID   uint   `json:"company_id"` // admins only; vendors use their own company
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock" binding:"min=0"`
	Discount    string `json:"discount"`
	CategoryID  *uint  `json:"category_id"`
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

// parsePercent validates a 0-100 percentage discount string.
func parsePercent(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, errors.New("discount must be between 0 and 100")
	}
	return d, nil
}

// CreateProductHandler creates a product for the caller's company, behind
// the monthly plan quota.
func CreateProductHandler(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var companyID uint
		switch {
		case ident.Role == models.RoleVendor && ident.CompanyID != nil:
			companyID = *ident.CompanyID
		case ident.IsAdmin() && req.CompanyID != 0:
			companyID = req.CompanyID
		default:
			c.JSON(http.StatusForbidden, gin.H{"error": "Only vendors linked to a company may create products"})
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil || price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		discount, err := parsePercent(req.Discount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount: " + err.Error()})
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = slugify(req.Name)
		}
		var taken int64
		if err := db.Model(&models.Product{}).Where("slug = ?", slug).Count(&taken).Error; err == nil && taken > 0 {
			slug = slug + "-" + strings.ToLower(uuid.NewString()[:6])
		}

		product := models.Product{
			CompanyID:   companyID,
			VendorID:    ident.UserID,
			CategoryID:  req.CategoryID,
			Name:        req.Name,
			Slug:        slug,
			Description: req.Description,
			Price:       price,
			Stock:       req.Stock,
			Discount:    discount,
			IsActive:    true,
		}

		if err := CreateProduct(db, &product); err != nil {
			if errors.Is(err, ErrQuotaExceeded) {
				log.Warn("product creation denied by quota",
					zap.Uint("company_id", companyID),
					zap.Error(err))
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}
