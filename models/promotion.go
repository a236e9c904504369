package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Promotion struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name          string          `gorm:"not null"`
	DiscountType  string          `gorm:"type:varchar(20);not null"` // fixed, percentage
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StartsAt      *time.Time
	EndsAt        *time.Time
	IsActive      bool `gorm:"default:true"`

	gorm.Model
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

type Voucher struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Code      string          `gorm:"not null;uniqueIndex:idx_salon_code,priority:2"`
	Type      string          `gorm:"type:varchar(20);not null"` // fixed, percentage
	Value     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiresAt *time.Time
	IsActive  bool `gorm:"default:true"`

	gorm.Model
}

func (v *Voucher) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
