package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	SalonID         uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"not null;uniqueIndex:idx_salon_phone,priority:2"`
	Email string
	Notes string

	LoyaltyPoints decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	WalletBalance decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`

	TotalVisits int             `gorm:"default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	LastVisit   *time.Time
	IsActive    bool `gorm:"default:true"`

	Packages []CustomerPackage `gorm:"foreignKey:CustomerID"`
	Invoices []Invoice         `gorm:"foreignKey:CustomerID"`

	gorm.Model
}

// CustomerPackage is a prepaid bundle of sessions for a named service.
// Checking out a package-redeemed line decrements SessionsLeft.
type CustomerPackage struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string          `gorm:"not null"`
	SessionsTotal int             `gorm:"not null"`
	SessionsLeft  int             `gorm:"not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);default:0.0"`
	ExpiresAt     *time.Time

	gorm.Model
}

func (p *CustomerPackage) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
