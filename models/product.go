package models

import "time"

// Product is never hard-deleted; Active=false hides it from the catalog
// while sale and cart history keep referencing it. Name is unique among
// active products only (partial index created at startup).
type Product struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string   `gorm:"index;not null" json:"name"`
	Description string   `json:"description"`
	Price       float64  `gorm:"not null" json:"price"`
	Stock       int      `gorm:"default:0" json:"stock"`
	CategoryID  uint     `json:"category_id"`
	Category    Category `gorm:"foreignKey:CategoryID" json:"category"`
	Active      bool     `gorm:"default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
