package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/middleware"
	"github.com/ahmed50f/new-commerce/models"
)

// ImportProductsFromExcel bulk-creates or updates products from an uploaded
// sheet. Columns: ID, Name, Description, Price, Stock, Discount, CategoryID.
// New rows go through the quota-gated create; rows for the caller's own
// products are plain updates.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := middleware.CurrentIdentity(c)
		if !ok || ident.CompanyID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only vendors linked to a company may import products"})
			return
		}
		companyID := *ident.CompanyID

		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse Excel file"})
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			price, priceErr := decimal.NewFromString(get(3))
			stock, _ := strconv.Atoi(get(4))
			discount, discountErr := parsePercent(get(5))
			categoryIDStr := get(6)

			if name == "" || priceErr != nil || discountErr != nil || price.IsNegative() || stock < 0 {
				skippedCount++
				continue
			}

			var categoryID *uint
			if cid, err := strconv.Atoi(categoryIDStr); err == nil {
				id := uint(cid)
				categoryID = &id
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil && existing.CompanyID == companyID {
						existing.Name = name
						existing.Description = description
						existing.Price = price
						existing.Stock = stock
						existing.Discount = discount
						existing.CategoryID = categoryID
						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
					}
					skippedCount++
					continue
				}
			}

			product := models.Product{
				CompanyID:   companyID,
				VendorID:    ident.UserID,
				CategoryID:  categoryID,
				Name:        name,
				Slug:        slugify(name),
				Description: description,
				Price:       price,
				Stock:       stock,
				Discount:    discount,
				IsActive:    true,
			}
			if err := CreateProduct(db, &product); err != nil {
				if errors.Is(err, ErrQuotaExceeded) {
					// Everything below this row would fail the same check.
					skippedCount += sheet.MaxRow - i
					break
				}
				skippedCount++
				continue
			}
			createdCount++
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
