package productControllers

import (
	"net/http"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DeleteProduct soft-deletes: the row stays so cart lines and sale
// snapshots keep a valid reference, it just disappears from the catalog.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("Category").
			Where("id = ? AND active = ?", id, true).
			First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		if err := db.Model(&product).Update("active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}
