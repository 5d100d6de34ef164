package models

import "gorm.io/gorm"

// CartItem is one line of the in-session cart: a product snapshot plus
// a quantity. Stock is the stock at snapshot time; quantity clamping
// uses it rather than re-reading the live catalogue.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	ImageURL  string  `json:"image_url"`
	Stock     int     `json:"stock"`
	Quantity  int     `json:"quantity"`
}

// UserCart is the persisted authenticated-realm row: one per
// (user, product).
type UserCart struct {
	gorm.Model
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID string `gorm:"size:36;not null;uniqueIndex:idx_user_product" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

func (UserCart) TableName() string { return "user_carts" }
