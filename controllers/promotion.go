// controllers/promotion.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreatePromotionInput struct {
	Name          string          `json:"name" binding:"required"`
	DiscountType  string          `json:"discountType" binding:"required,oneof=fixed percentage"`
	DiscountValue decimal.Decimal `json:"discountValue" binding:"required"`
	StartsAt      *time.Time      `json:"startsAt"`
	EndsAt        *time.Time      `json:"endsAt"`
}

type CreateVoucherInput struct {
	Code      string          `json:"code"`
	Type      string          `json:"type" binding:"required,oneof=fixed percentage"`
	Value     decimal.Decimal `json:"value" binding:"required"`
	ExpiresAt *time.Time      `json:"expiresAt"`
}

// CreatePromotion creates a promotion for the salon
func CreatePromotion(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	var input CreatePromotionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.DiscountValue.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Discount value must not be negative")
		return
	}

	promo := models.Promotion{
		SalonID:       salonUUID,
		Name:          input.Name,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		StartsAt:      input.StartsAt,
		EndsAt:        input.EndsAt,
		IsActive:      true,
	}

	if err := config.DB.Create(&promo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create promotion")
		return
	}

	c.JSON(http.StatusCreated, promo)
}

// GetPromotions lists promotions currently usable at the POS
func GetPromotions(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	var promos []models.Promotion
	if err := config.DB.Where("salon_id = ? AND is_active = true", salonUUID).
		Find(&promos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve promotions")
		return
	}

	c.JSON(http.StatusOK, promos)
}

// DeletePromotion deactivates a promotion
func DeletePromotion(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	promoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid promotion ID format")
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonUUID, promoUUID).
		Delete(&models.Promotion{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete promotion")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Promotion not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted successfully"})
}

// CreateVoucher creates a voucher code for the salon
func CreateVoucher(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	var input CreateVoucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Value.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Voucher value must not be negative")
		return
	}

	if input.Code == "" {
		input.Code = utils.GenerateRandomString(8)
	}

	// Voucher codes are unique per salon
	var existing models.Voucher
	if err := config.DB.Where("salon_id = ? AND code = ?", salonUUID, input.Code).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Voucher code already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	voucher := models.Voucher{
		SalonID:   salonUUID,
		Code:      input.Code,
		Type:      input.Type,
		Value:     input.Value,
		ExpiresAt: input.ExpiresAt,
		IsActive:  true,
	}

	if err := config.DB.Create(&voucher).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create voucher")
		return
	}

	c.JSON(http.StatusCreated, voucher)
}

// GetVouchers lists active vouchers for the salon
func GetVouchers(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	var vouchers []models.Voucher
	if err := config.DB.Where("salon_id = ? AND is_active = true", salonUUID).
		Find(&vouchers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve vouchers")
		return
	}

	c.JSON(http.StatusOK, vouchers)
}

// DeleteVoucher removes a voucher code
func DeleteVoucher(c *gin.Context) {
	salonID, exists := c.Get(utils.ContextSalonID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Salon ID not found in context")
		return
	}

	salonUUID, err := uuid.Parse(salonID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid salon ID format")
		return
	}

	voucherUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonUUID, voucherUUID).
		Delete(&models.Voucher{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete voucher")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Voucher not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted successfully"})
}
