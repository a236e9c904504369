package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Staffer is a directory entry for commission attribution. Line items
// reference staff by ID only; nothing here feeds the totals.
type Staffer struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	SalonID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name           string `gorm:"not null"`
	Phone          string
	Role           string          `gorm:"type:varchar(20);default:'stylist'"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);default:0.0"`
	IsActive       bool            `gorm:"default:true"`

	gorm.Model
}

func (s *Staffer) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
