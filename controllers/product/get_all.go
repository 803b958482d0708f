package productControllers

import (
	"net/http"
	"strconv"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProducts lists active products with limit/offset pagination and the
// total count of the active catalog.
// Query params: /products?limit=5&offset=0
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}

		var total int64
		if err := db.Model(&models.Product{}).Where("active = ?", true).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count products"})
			return
		}

		var products []models.Product
		if err := db.Preload("Category").
			Where("active = ?", true).
			Limit(limit).
			Offset(offset).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"total": total, "products": products})
	}
}
