package models

import "time"

type Cart struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"uniqueIndex" json:"user_id"` // one cart per user
	TotalPrice  float64    `gorm:"default:0" json:"total_price"`
	Items       []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	LastUpdated time.Time  `json:"last_updated"`
}

// CartItem holds the extended price for the line (unit price × quantity,
// accumulated at every mutation), not the unit price.
type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint    `gorm:"index;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint    `gorm:"uniqueIndex:idx_cart_product" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Price     float64 `gorm:"not null" json:"price"`
}
