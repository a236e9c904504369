package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SalonID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	Description string
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Duration    int             // in minutes
	Category    string          `gorm:"default:'General'"`
	// Share of the line total credited to the assigned staff member, as a
	// percentage. Display/payroll only, never part of totals.
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);default:0.0"`
	IsActive       bool            `gorm:"default:true"`

	InvoiceItems []InvoiceItem `gorm:"foreignKey:ItemID"`
}
