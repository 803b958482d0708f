package productControllers

import (
	"net/http"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
}

// UpdateProduct applies a partial update to an active product.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Where("id = ? AND active = ?", id, true).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if *input.Price < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
				return
			}
			updates["price"] = *input.Price
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Stock must be non-negative"})
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.Category != nil {
			var category models.Category
			if err := db.Where("name = ? AND active = ?", *input.Category, true).First(&category).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
				return
			}
			updates["category_id"] = category.ID
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		if err := db.Preload("Category").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
