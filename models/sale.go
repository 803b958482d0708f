package models

import "time"

// Sale is an immutable snapshot of a checked-out cart. Rows are only ever
// inserted; nothing in the API updates or deletes them.
type Sale struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleRef      string     `gorm:"uniqueIndex;not null" json:"sale_ref"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user"`
	Items        []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	TotalPrice   float64    `gorm:"not null" json:"total_price"`
	PurchaseDate time.Time  `json:"purchase_date"`
}

type SaleItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    uint    `gorm:"index" json:"sale_id"`
	ProductID uint    `json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"` // price per unit at purchase time
}
