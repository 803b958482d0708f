package cartControllers

import (
	"testing"

	"github.com/bcastillo-2022474/sales-testing/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a fresh :memory: db per connection, so keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Sale{},
		&models.SaleItem{},
	))
	require.NoError(t, db.Create(&models.Category{Name: "general", Active: true}).Error)
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@test.local",
		Password: "x",
		Role:     models.RoleClient,
		Active:   true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		CategoryID: 1,
		Active:     true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func cartTotal(t *testing.T, db *gorm.DB, userID uint) float64 {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where("user_id = ?", userID).First(&cart).Error)
	return cart.TotalPrice
}

func TestAddItem(t *testing.T) {
	t.Run("creates a line and the cart lazily", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		item, err := AddItem(db, user.ID, "coffee", 3)
		require.NoError(t, err)
		require.Equal(t, 3, item.Quantity)
		require.Equal(t, 15.0, item.Price)
		require.Equal(t, 15.0, cartTotal(t, db, user.ID))
	})

	t.Run("accumulates quantity and price across price changes", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		product := createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 2)
		require.NoError(t, err)

		// price change between increments must not rewrite history
		require.NoError(t, db.Model(&product).Update("price", 7).Error)

		item, err := AddItem(db, user.ID, "coffee", 3)
		require.NoError(t, err)
		require.Equal(t, 5, item.Quantity)
		require.Equal(t, 2*5.0+3*7.0, item.Price)
		require.Equal(t, 31.0, cartTotal(t, db, user.ID))

		var count int64
		require.NoError(t, db.Model(&models.CartItem{}).Count(&count).Error)
		require.EqualValues(t, 1, count)
	})

	t.Run("stock check is cumulative with the existing line", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 8)
		require.NoError(t, err)

		_, err = AddItem(db, user.ID, "coffee", 3)
		require.ErrorIs(t, err, ErrInsufficientStock)

		// nothing moved
		var item models.CartItem
		require.NoError(t, db.First(&item).Error)
		require.Equal(t, 8, item.Quantity)
		require.Equal(t, 40.0, item.Price)
		require.Equal(t, 40.0, cartTotal(t, db, user.ID))
	})

	t.Run("rejects more than stock on a fresh cart without leaving state", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 11)
		require.ErrorIs(t, err, ErrInsufficientStock)

		var carts int64
		require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
		require.EqualValues(t, 0, carts)
	})

	t.Run("unknown or inactive product is not found", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		product := createProduct(t, db, "coffee", 5, 10)
		require.NoError(t, db.Model(&product).Update("active", false).Error)

		_, err := AddItem(db, user.ID, "tea", 1)
		require.ErrorIs(t, err, ErrProductNotFound)

		_, err = AddItem(db, user.ID, "coffee", 1)
		require.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestUpdateItem(t *testing.T) {
	t.Run("replaces quantity and price at the current unit price", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		product := createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 2)
		require.NoError(t, err)

		require.NoError(t, db.Model(&product).Update("price", 7).Error)

		item, err := UpdateItem(db, user.ID, "coffee", 4)
		require.NoError(t, err)
		require.Equal(t, 4, item.Quantity)
		require.Equal(t, 28.0, item.Price)
		require.Equal(t, 28.0, cartTotal(t, db, user.ID))
	})

	t.Run("creates the line when it does not exist", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		item, err := UpdateItem(db, user.ID, "coffee", 4)
		require.NoError(t, err)
		require.Equal(t, 4, item.Quantity)
		require.Equal(t, 20.0, item.Price)
		require.Equal(t, 20.0, cartTotal(t, db, user.ID))
	})

	t.Run("stock check is absolute, not cumulative", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 8)
		require.NoError(t, err)

		// 8 already reserved; a cumulative check would reject 10
		item, err := UpdateItem(db, user.ID, "coffee", 10)
		require.NoError(t, err)
		require.Equal(t, 10, item.Quantity)

		_, err = UpdateItem(db, user.ID, "coffee", 11)
		require.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("accepts inactive products", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		product := createProduct(t, db, "coffee", 5, 10)

		_, err := AddItem(db, user.ID, "coffee", 2)
		require.NoError(t, err)
		require.NoError(t, db.Model(&product).Update("active", false).Error)

		item, err := UpdateItem(db, user.ID, "coffee", 1)
		require.NoError(t, err)
		require.Equal(t, 1, item.Quantity)
		require.Equal(t, 5.0, item.Price)
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("removes only the matching line and its price", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)
		createProduct(t, db, "tea", 3, 10)

		_, err := AddItem(db, user.ID, "coffee", 2)
		require.NoError(t, err)
		_, err = AddItem(db, user.ID, "tea", 4)
		require.NoError(t, err)
		require.Equal(t, 22.0, cartTotal(t, db, user.ID))

		require.NoError(t, RemoveItem(db, user.ID, "coffee"))
		require.Equal(t, 12.0, cartTotal(t, db, user.ID))

		var items []models.CartItem
		require.NoError(t, db.Find(&items).Error)
		require.Len(t, items, 1)
		require.Equal(t, 4, items[0].Quantity)
	})

	t.Run("distinct not-found conditions", func(t *testing.T) {
		db := setupDB(t)
		user := createUser(t, db, "alice")
		createProduct(t, db, "coffee", 5, 10)

		require.ErrorIs(t, RemoveItem(db, user.ID, "tea"), ErrProductNotFound)
		require.ErrorIs(t, RemoveItem(db, user.ID, "coffee"), ErrCartNotFound)

		_, err := AddItem(db, user.ID, "coffee", 1)
		require.NoError(t, err)
		require.NoError(t, RemoveItem(db, user.ID, "coffee"))
		require.ErrorIs(t, RemoveItem(db, user.ID, "coffee"), ErrItemNotFound)
	})
}

func TestClearCart(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	createProduct(t, db, "coffee", 5, 10)

	_, err := AddItem(db, user.ID, "coffee", 2)
	require.NoError(t, err)

	require.NoError(t, Clear(db, user.ID))

	var carts, items int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&items).Error)
	require.EqualValues(t, 0, carts)
	require.EqualValues(t, 0, items)

	require.ErrorIs(t, Clear(db, user.ID), ErrCartNotFound)
}

func TestGetCart(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	createProduct(t, db, "coffee", 5, 10)

	// first view creates an empty cart
	cart, err := GetCart(db, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0.0, cart.TotalPrice)
	require.Empty(t, cart.Items)

	_, err = AddItem(db, user.ID, "coffee", 2)
	require.NoError(t, err)

	cart, err = GetCart(db, user.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.Equal(t, "coffee", cart.Items[0].Product.Name)
	require.Equal(t, 5.0, cart.Items[0].Product.Price)
}

// The cart total must equal the sum of its line prices after any sequence
// of mutations.
func TestTotalMatchesLineSum(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	createProduct(t, db, "coffee", 5, 50)
	createProduct(t, db, "tea", 3, 50)
	createProduct(t, db, "mate", 2.5, 50)

	_, err := AddItem(db, user.ID, "coffee", 3)
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, "tea", 2)
	require.NoError(t, err)
	_, err = UpdateItem(db, user.ID, "coffee", 1)
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, "mate", 4)
	require.NoError(t, err)
	require.NoError(t, RemoveItem(db, user.ID, "tea"))
	_, err = AddItem(db, user.ID, "coffee", 2)
	require.NoError(t, err)

	var items []models.CartItem
	require.NoError(t, db.Find(&items).Error)
	sum := 0.0
	for _, item := range items {
		sum += item.Price
	}
	require.InDelta(t, sum, cartTotal(t, db, user.ID), 1e-9)
}
