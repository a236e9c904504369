package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Salon struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	Name         string    `gorm:"not null"`
	Address      string
	WorkingHours JSONB `gorm:"type:jsonb;default:'{}'"`
	// Default GST percentage applied to POS bills for this salon.
	TaxPercent decimal.Decimal `gorm:"type:decimal(5,2);default:18.0"`

	Users         []User         `gorm:"foreignKey:SalonID"`
	Customers     []Customer     `gorm:"foreignKey:SalonID"`
	Services      []Service      `gorm:"foreignKey:SalonID"`
	Products      []Product      `gorm:"foreignKey:SalonID"`
	Staffers      []Staffer      `gorm:"foreignKey:SalonID"`
	Promotions    []Promotion    `gorm:"foreignKey:SalonID"`
	Vouchers      []Voucher      `gorm:"foreignKey:SalonID"`
	Invoices      []Invoice      `gorm:"foreignKey:SalonID"`
	PendingOrders []PendingOrder `gorm:"foreignKey:SalonID"`
}
