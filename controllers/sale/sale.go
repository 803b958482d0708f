package saleControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bcastillo-2022474/sales-testing/helpers"
	"github.com/bcastillo-2022474/sales-testing/middleware"
	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty         = errors.New("cart empty")
	ErrCartNoItems       = errors.New("cart has no items")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrSaleNotFound      = errors.New("sale not found")
)

// Generate unique sale reference, e.g. 20250908130500-<uuid4>
func generateSaleRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// Checkout drains the user's cart into an immutable sale: decrement stock,
// snapshot the lines, delete the cart. The whole sequence runs in one
// transaction under the per-user cart lock, so a failure at any step leaves
// stock, cart and ledger untouched.
func Checkout(db *gorm.DB, userID uint) (*models.Sale, error) {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	var saleID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartEmpty
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Preload("Product").Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartNoItems
		}

		saleItems := make([]models.SaleItem, 0, len(items))
		for _, item := range items {
			// Guarded decrement: the WHERE clause is the stock check, so two
			// checkouts racing on the same product cannot drive it negative.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}

			saleItems = append(saleItems, models.SaleItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price / float64(item.Quantity),
			})
		}

		sale := models.Sale{
			SaleRef:      generateSaleRef(),
			UserID:       userID,
			Items:        saleItems,
			TotalPrice:   cart.TotalPrice,
			PurchaseDate: time.Now(),
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&cart).Error; err != nil {
			return err
		}

		saleID = sale.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	var sale models.Sale
	if err := db.Preload("User").Preload("Items").Preload("Items.Product").
		First(&sale, saleID).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// -------- Handlers --------

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrCartEmpty),
		errors.Is(err, ErrCartNoItems),
		errors.Is(err, ErrSaleNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) gin.H {
	if statusFor(err) == http.StatusInternalServerError {
		return gin.H{"error": "Something went wrong"}
	}
	return gin.H{"error": err.Error()}
}

func saleResponse(sale *models.Sale) gin.H {
	return gin.H{
		"id":            sale.ID,
		"sale_ref":      sale.SaleRef,
		"user":          sale.User.Public(),
		"items":         sale.Items,
		"total_price":   sale.TotalPrice,
		"purchase_date": sale.PurchaseDate,
	}
}

// POST /buy/
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		sale, err := Checkout(db, userID)
		if err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}

		broadcastNewSale(*sale)
		c.JSON(http.StatusCreated, saleResponse(sale))
	}
}

// GET /buy/
func GetUserSalesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var sales []models.Sale
		if err := db.
			Where("user_id = ?", userID).
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Order("purchase_date DESC").
			Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}

		out := make([]gin.H, 0, len(sales))
		for i := range sales {
			out = append(out, saleResponse(&sales[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /invoices?limit=&page= (admin)
func GetAllSalesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Limit must be an integer"})
			return
		}
		page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
		if err != nil || page < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Page must be an integer"})
			return
		}

		var total int64
		if err := db.Model(&models.Sale{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count sales"})
			return
		}

		var sales []models.Sale
		if err := db.
			Preload("User").
			Preload("Items").
			Preload("Items.Product").
			Order("purchase_date DESC").
			Limit(limit).
			Offset(page * limit).
			Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"total": total, "sales": sales})
	}
}

// GET /invoices/:id (admin)
func GetSaleByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		// Numeric ids hit the primary key, anything else is a sale_ref.
		query := db.Preload("User").Preload("Items").Preload("Items.Product")
		if _, err := strconv.Atoi(id); err == nil {
			query = query.Where("id = ?", id)
		} else {
			query = query.Where("sale_ref = ?", id)
		}

		var sale models.Sale
		if err := query.First(&sale).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sale"})
			return
		}

		c.JSON(http.StatusOK, saleResponse(&sale))
	}
}
