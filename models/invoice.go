package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the persisted snapshot of a successful checkout. Rows are
// written once inside the checkout transaction and never updated.
type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SalonID         uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	InvoiceDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountTotal  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	PointsRedeemed decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	WalletRedeemed decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	TaxableBase    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TaxPercent     decimal.Decimal `gorm:"type:decimal(5,2);default:0.0"`
	Tax            decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	LoyaltyEarned int64 `gorm:"default:0"`
	Notes         string

	Items     []InvoiceItem     `gorm:"foreignKey:InvoiceID"`
	Payments  []InvoicePayment  `gorm:"foreignKey:InvoiceID"`
	Discounts []InvoiceDiscount `gorm:"foreignKey:InvoiceID"`
}

type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	ItemID            uuid.UUID       `gorm:"type:uuid;index;not null"`
	Kind              string          `gorm:"type:varchar(10);not null"` // service, product
	Name              string          `gorm:"not null"`
	Quantity          int             `gorm:"default:1"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PackageRedemption bool            `gorm:"default:false"`
	AssignedStaffID   *uuid.UUID      `gorm:"type:uuid"`
	TotalPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

type InvoicePayment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Method string          `gorm:"type:varchar(10);not null"` // cash, card, online, wallet
	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// InvoiceDiscount records one applied discount source with the amount it
// actually contributed, so the breakdown stays reproducible.
type InvoiceDiscount struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	Source string          `gorm:"type:varchar(10);not null"` // manual, promotion, voucher
	Type   string          `gorm:"type:varchar(20);not null"` // fixed, percentage
	Value  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Amount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Label  string
}
