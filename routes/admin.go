package routes

import (
	productControllers "github.com/bcastillo-2022474/sales-testing/controllers/product"
	saleControllers "github.com/bcastillo-2022474/sales-testing/controllers/sale"
	userControllers "github.com/bcastillo-2022474/sales-testing/controllers/user"
	"github.com/bcastillo-2022474/sales-testing/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all admin endpoints. Requires an admin JWT.
func SetupAdminRoutes(api *gin.RouterGroup, db *gorm.DB) {
	adminGroup := api.Group("/")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		// ─────────── Product Management ───────────
		adminGroup.POST("/products", productControllers.CreateProduct(db))
		adminGroup.PUT("/products/:id", productControllers.UpdateProduct(db))
		adminGroup.DELETE("/products/:id", productControllers.DeleteProduct(db))
		adminGroup.GET("/products/export-excel", productControllers.ExportProductsToExcel(db))

		// ─────────── Category Management ───────────
		adminGroup.POST("/categories", productControllers.CreateCategory(db))
		adminGroup.PUT("/categories/:id", productControllers.UpdateCategory(db))
		adminGroup.DELETE("/categories/:id", productControllers.DeleteCategory(db))

		// ─────────── Sales Ledger ───────────
		adminGroup.GET("/invoices", saleControllers.GetAllSalesHandler(db))
		adminGroup.GET("/invoices/:id", saleControllers.GetSaleByIDHandler(db))
		adminGroup.GET("/invoices/ws", saleControllers.SaleWebSocketHandler)

		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
	}
}
