// services/lookups.go
package services

import (
	"errors"

	"salonpos-backend/billing"
	"salonpos-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoucherCatalog resolves voucher codes for one salon.
type VoucherCatalog struct {
	db      *gorm.DB
	salonID uuid.UUID
}

func NewVoucherCatalog(db *gorm.DB, salonID uuid.UUID) *VoucherCatalog {
	return &VoucherCatalog{db: db, salonID: salonID}
}

func (vc *VoucherCatalog) FindByCode(code string) (*billing.Voucher, error) {
	var voucher models.Voucher
	err := vc.db.Where("salon_id = ? AND code = ? AND is_active = true", vc.salonID, code).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrInvalidVoucherCode
		}
		return nil, err
	}
	return &billing.Voucher{
		ID:    voucher.ID,
		Code:  voucher.Code,
		Type:  billing.DiscountType(voucher.Type),
		Value: voucher.Value,
	}, nil
}

// ProductCatalog resolves SKU/barcode scans at the counter.
type ProductCatalog struct {
	db      *gorm.DB
	salonID uuid.UUID
}

func NewProductCatalog(db *gorm.DB, salonID uuid.UUID) *ProductCatalog {
	return &ProductCatalog{db: db, salonID: salonID}
}

func (pc *ProductCatalog) FindByCode(code string) (*billing.CatalogItem, billing.ItemKind, error) {
	var product models.Product
	err := pc.db.Where("salon_id = ? AND is_active = true AND (sku = ? OR barcode = ?)",
		pc.salonID, code, code).First(&product).Error
	if err != nil {
		return nil, "", err
	}
	return &billing.CatalogItem{
		ID:    product.ID,
		Name:  product.Name,
		Price: product.Price,
	}, billing.KindProduct, nil
}
