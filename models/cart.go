package models

import "time"

// CartItem is one line of a user's in-progress purchase. The composite unique
// index enforces at most one line per (user, product); adds for an existing
// product merge into that line.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}
