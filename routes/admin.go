package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	companyControllers "github.com/ahmed50f/new-commerce/controllers/company"
	orderControllers "github.com/ahmed50f/new-commerce/controllers/order"
	productcontroller "github.com/ahmed50f/new-commerce/controllers/product"
	"github.com/ahmed50f/new-commerce/middleware"
)

func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey)
	{
		// Companies
		admin.POST("/companies", companyControllers.CreateCompany(db))
		admin.GET("/companies", companyControllers.GetAllCompanies(db))
		admin.GET("/companies/:id", companyControllers.GetCompanyByID(db))
		admin.PUT("/companies/:id", companyControllers.UpdateCompany(db))
		admin.DELETE("/companies/:id", companyControllers.DeleteCompany(db))

		// Categories
		admin.POST("/categories", productcontroller.CreateCategory(db))
		admin.PUT("/categories/:id", productcontroller.UpdateCategory(db))
		admin.DELETE("/categories/:id", productcontroller.DeleteCategory(db))

		// Full order book and catalog export
		admin.GET("/orders", orderControllers.GetAllOrdersHandler(db))
		admin.GET("/products/export", productcontroller.ExportProductsToExcel(db))
	}
}
