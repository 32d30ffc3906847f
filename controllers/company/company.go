package companyControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/models"
)

type CompanyRequest struct {
	Name             string `json:"name" binding:"required"`
	TaxNumber        string `json:"tax_number"`
	Address          string `json:"address"`
	SubscriptionPlan string `json:"subscription_plan"`
}

func mapPlan(plan string) (models.SubscriptionPlan, error) {
	switch models.SubscriptionPlan(plan) {
	case models.PlanFree, models.PlanBasic, models.PlanPremium:
		return models.SubscriptionPlan(plan), nil
	case "":
		return models.PlanFree, nil
	default:
		return "", errors.New("invalid subscription plan")
	}
}

// CreateCompany registers a company. Plan price is derived from the plan by
// the model hook, never taken from the request.
func CreateCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		plan, err := mapPlan(req.SubscriptionPlan)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		company := models.Company{
			Name:             req.Name,
			TaxNumber:        req.TaxNumber,
			Address:          req.Address,
			SubscriptionPlan: plan,
		}
		if err := db.Create(&company).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create company"})
			return
		}
		c.JSON(http.StatusCreated, company)
	}
}

func GetAllCompanies(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var companies []models.Company
		if err := db.Find(&companies).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch companies"})
			return
		}
		c.JSON(http.StatusOK, companies)
	}
}

func GetCompanyByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var company models.Company
		if err := db.First(&company, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		c.JSON(http.StatusOK, company)
	}
}

// UpdateCompany edits company fields; a plan change re-derives the price.
func UpdateCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var company models.Company
		if err := db.First(&company, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}

		var req CompanyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		plan, err := mapPlan(req.SubscriptionPlan)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		company.Name = req.Name
		company.TaxNumber = req.TaxNumber
		company.Address = req.Address
		company.SubscriptionPlan = plan

		if err := db.Save(&company).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update company"})
			return
		}
		c.JSON(http.StatusOK, company)
	}
}

func DeleteCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Company{}, c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
	}
}
