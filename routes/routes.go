package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up Auth, Client, and
// Admin route groups under /api/v1.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	api := r.Group("/api/v1")

	// Public auth routes (no middleware)
	SetupAuthRoutes(api, db)

	// Client routes (JWT-protected, client role)
	SetupClientRoutes(api, db)

	// Admin routes (JWT-protected, admin role)
	SetupAdminRoutes(api, db)
}
