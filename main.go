package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/bcastillo-2022474/sales-testing/routes"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Sale{},
		&models.SaleItem{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Product names are unique among active rows only, so soft-deleted
	// products can keep their name for sale history.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_active_name ON products (name) WHERE active",
		).Error; err != nil {
			log.Fatalf("❌ Failed to create product name index: %v", err)
		}
	}

	// Seed default admin and category
	if err := seedDefaults(db); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, db)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// seedDefaults makes sure a usable admin account and a default category
// exist on a fresh database.
func seedDefaults(db *gorm.DB) error {
	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return err
	}
	if admins == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Username: "admin",
			Email:    "admin@store.local",
			Password: string(hashed),
			Role:     models.RoleAdmin,
			Active:   true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Println("✅ Seeded default admin user")
	}

	var categories int64
	if err := db.Model(&models.Category{}).Count(&categories).Error; err != nil {
		return err
	}
	if categories == 0 {
		category := models.Category{Name: "general", Description: "Default category", Active: true}
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		log.Println("✅ Seeded default category")
	}

	return nil
}
