package routes

import (
	"github.com/bcastillo-2022474/sales-testing/auth"
	productControllers "github.com/bcastillo-2022474/sales-testing/controllers/product"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers the public endpoints: signup/login and the
// browsable catalog.
func SetupAuthRoutes(api *gin.RouterGroup, db *gorm.DB) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", auth.Signup(db))
		authGroup.POST("/login", auth.Login(db))
	}

	// Catalog reads are public
	api.GET("/products", productControllers.GetProducts(db))
	api.GET("/products/:id", productControllers.GetProductByID(db))
	api.GET("/categories", productControllers.GetAllCategories(db))
}
