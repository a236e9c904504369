// controllers/pending_order.go
package controllers

import (
	"net/http"

	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PendingOrderItemInput struct {
	ItemID    uuid.UUID       `json:"itemId" binding:"required"`
	Kind      string          `json:"kind" binding:"required,oneof=service product"`
	Name      string          `json:"name" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Quantity  int             `json:"quantity" binding:"min=1"`
}

type CreatePendingOrderInput struct {
	CustomerID *uuid.UUID              `json:"customerId"`
	Source     string                  `json:"source"`
	Items      []PendingOrderItemInput `json:"items" binding:"required,min=1"`
}

// CreatePendingOrder queues an externally-originated order for the POS
func CreatePendingOrder(c *gin.Context) {
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

	var input CreatePendingOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	order := models.PendingOrder{
		SalonID:    salonUUID,
		CustomerID: input.CustomerID,
		Status:     models.PendingOrderOpen,
	}
	if input.Source != "" {
		order.Source = input.Source
	}
	for _, item := range input.Items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		order.Items = append(order.Items, models.PendingOrderItem{
			ItemID:    item.ItemID,
			Kind:      item.Kind,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  qty,
		})
	}

	if err := config.DB.Create(&order).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pending order")
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetPendingOrders lists orders waiting to be billed
func GetPendingOrders(c *gin.Context) {
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

	var orders []models.PendingOrder
	if err := config.DB.Preload("Items").
		Where("salon_id = ? AND status = ?", salonUUID, models.PendingOrderOpen).
		Find(&orders).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve pending orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

// DismissPendingOrder marks a queued order as not to be billed
func DismissPendingOrder(c *gin.Context) {
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

	orderUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	result := config.DB.Model(&models.PendingOrder{}).
		Where("salon_id = ? AND id = ? AND status = ?", salonUUID, orderUUID, models.PendingOrderOpen).
		Update("status", models.PendingOrderDismissed)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to dismiss pending order")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Pending order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pending order dismissed"})
}
