package models

import (
	"time"

	"gorm.io/gorm"
)

// Product prices are stored in paise (smallest currency unit). Conversion to
// rupees happens only in clients; the Razorpay API takes paise natively.
type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Price       int64          `gorm:"not null" json:"price"`
	Category    string         `gorm:"index" json:"category"`
	SkinType    string         `gorm:"default:'all'" json:"skin_type"`
	Stock       int            `json:"stock"`
	Image       string         `json:"image"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
