package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bcastillo-2022474/sales-testing/helpers"
	"github.com/bcastillo-2022474/sales-testing/middleware"
	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("product not found in the cart")
	ErrInsufficientStock = errors.New("not enough stock")
)

type CartItemInput struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type DeleteItemInput struct {
	Product string `json:"product" binding:"required"`
}

// -------- Core Logic --------
//
// Every mutator holds the per-user cart lock for its whole transaction, so
// cart operations for one user behave as if serialized. The transaction
// keeps line, total_price and lazily-created cart consistent: either the
// whole mutation lands or none of it does.

func findOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cart = models.Cart{UserID: userID, TotalPrice: 0, LastUpdated: time.Now()}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem accumulates onto an existing line: quantity += q and
// price += unit×q, preserving whatever the line already cost even if the
// product price changed since. The stock check is cumulative — requested
// quantity plus what the line already reserves.
func AddItem(db *gorm.DB, userID uint, productName string, quantity int) (*models.CartItem, error) {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	var result models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("name = ? AND active = ?", productName, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		cart, err := findOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		found := err == nil

		cumulative := quantity
		if found {
			cumulative += item.Quantity
		}
		if product.Stock < cumulative {
			return ErrInsufficientStock
		}

		delta := product.Price * float64(quantity)
		if found {
			item.Quantity += quantity
			item.Price += delta
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		} else {
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     delta,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(cart).Updates(map[string]interface{}{
			"total_price":  gorm.Expr("total_price + ?", delta),
			"last_updated": time.Now(),
		}).Error; err != nil {
			return err
		}

		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateItem replaces the line outright: quantity and price become q and
// unit×q at the current product price. Unlike AddItem the stock check is
// absolute (against q alone) and the product only has to exist, active or
// not. Both asymmetries are deliberate; callers depend on them.
func UpdateItem(db *gorm.DB, userID uint, productName string, quantity int) (*models.CartItem, error) {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	var result models.CartItem
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("name = ?", productName).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if product.Stock < quantity {
			return ErrInsufficientStock
		}

		cart, err := findOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		found := err == nil

		oldPrice := 0.0
		newPrice := product.Price * float64(quantity)
		if found {
			oldPrice = item.Price
			item.Quantity = quantity
			item.Price = newPrice
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		} else {
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     newPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(cart).Updates(map[string]interface{}{
			"total_price":  gorm.Expr("total_price + ?", newPrice-oldPrice),
			"last_updated": time.Now(),
		}).Error; err != nil {
			return err
		}

		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RemoveItem deletes one line and subtracts its price from the cart total.
func RemoveItem(db *gorm.DB, userID uint, productName string) error {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("name = ?", productName).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, product.ID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		return tx.Model(&cart).Updates(map[string]interface{}{
			"total_price":  gorm.Expr("total_price - ?", item.Price),
			"last_updated": time.Now(),
		}).Error
	})
}

// Clear deletes all lines and the cart row itself.
func Clear(db *gorm.DB, userID uint) error {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	return db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}

// GetCart returns the cart with its lines and their products, creating an
// empty cart on first view.
func GetCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	unlock := helpers.LockUserCart(userID)
	defer unlock()

	var cart *models.Cart
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = findOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		return tx.Preload("Items").Preload("Items.Product").First(cart, cart.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// -------- Handlers --------

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrItemNotFound):
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

// POST /cart/add
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, userID, input.Product, input.Quantity)
		if err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /cart/update
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateItem(db, userID, input.Product, input.Quantity)
		if err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /cart/delete/item
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input DeleteItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := RemoveItem(db, userID, input.Product); err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed from the cart"})
	}
}

// DELETE /cart/delete
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if err := Clear(db, userID); err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart deleted"})
	}
}

// GET /cart/
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		cart, err := GetCart(db, userID)
		if err != nil {
			c.JSON(statusFor(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}
