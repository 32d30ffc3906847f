package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	productcontroller "github.com/ahmed50f/new-commerce/controllers/product"
	"github.com/ahmed50f/new-commerce/middleware"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) {
	// Public catalog
	products := r.Group("/products")
	{
		products.GET("/", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
		products.GET("/:id/reviews", productcontroller.GetProductReviews(db))
	}

	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(db))

	// Vendor operations (JWT-protected; creation is quota-gated)
	vendor := r.Group("/products")
	vendor.Use(middleware.ValidateToken(db))
	{
		vendor.POST("/", productcontroller.CreateProductHandler(db, log))
		vendor.PUT("/:id", productcontroller.UpdateProductHandler(db))
		vendor.DELETE("/:id", productcontroller.DeleteProduct(db))
		vendor.POST("/import", productcontroller.ImportProductsFromExcel(db))
		vendor.POST("/:id/reviews", productcontroller.CreateReviewHandler(db))
	}
}
