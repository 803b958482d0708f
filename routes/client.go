package routes

import (
	cartControllers "github.com/bcastillo-2022474/sales-testing/controllers/cart"
	saleControllers "github.com/bcastillo-2022474/sales-testing/controllers/sale"
	userControllers "github.com/bcastillo-2022474/sales-testing/controllers/user"
	"github.com/bcastillo-2022474/sales-testing/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupClientRoutes registers the cart and checkout endpoints. Requires a
// client JWT.
func SetupClientRoutes(api *gin.RouterGroup, db *gorm.DB) {
	api.GET("/users/me", middleware.ValidateToken, userControllers.GetProfile(db))

	cartGroup := api.Group("/cart")
	cartGroup.Use(middleware.ValidateToken, middleware.RequireClient)
	{
		cartGroup.POST("/add", cartControllers.AddItemHandler(db))           // POST /cart/add
		cartGroup.PUT("/update", cartControllers.UpdateItemHandler(db))      // PUT /cart/update
		cartGroup.DELETE("/delete", cartControllers.ClearCartHandler(db))    // DELETE /cart/delete
		cartGroup.DELETE("/delete/item", cartControllers.RemoveItemHandler(db)) // DELETE /cart/delete/item
		cartGroup.GET("/", cartControllers.GetCartHandler(db))               // GET /cart/
	}

	buyGroup := api.Group("/buy")
	buyGroup.Use(middleware.ValidateToken, middleware.RequireClient)
	{
		buyGroup.POST("/", saleControllers.CheckoutHandler(db)) // POST /buy/
		buyGroup.GET("/", saleControllers.GetUserSalesHandler(db))
	}
}
