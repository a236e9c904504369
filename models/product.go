package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a retail item sold over the counter, looked up by SKU or
// barcode at the POS.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Description string
	SKU         string          `gorm:"uniqueIndex:idx_salon_sku,priority:2"`
	Barcode     string          `gorm:"index"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Stock       int             `gorm:"default:0"`
	Category    string          `gorm:"default:'General'"`
	IsActive    bool            `gorm:"default:true"`
}
