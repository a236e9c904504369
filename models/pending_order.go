package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PendingOrderOpen      = "pending"
	PendingOrderImported  = "imported"
	PendingOrderDismissed = "dismissed"
)

// PendingOrder is an externally-originated order (booking app, website)
// waiting to be pulled into a bill. The POS imports it explicitly; nothing
// polls for it.
type PendingOrder struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	SalonID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	Source string `gorm:"type:varchar(20);default:'app'"`
	Status string `gorm:"type:varchar(20);default:'pending'"`

	Items []PendingOrderItem `gorm:"foreignKey:PendingOrderID"`

	gorm.Model
}

type PendingOrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	PendingOrderID uuid.UUID `gorm:"type:uuid;index;not null"`

	ItemID    uuid.UUID       `gorm:"type:uuid;not null"`
	Kind      string          `gorm:"type:varchar(10);not null"` // service, product
	Name      string          `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"default:1"`
}

func (o *PendingOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}

func (i *PendingOrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
