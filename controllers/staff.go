// controllers/staff.go
package controllers

import (
	"errors"
	"net/http"

	"salonpos-backend/config"
	"salonpos-backend/models"
	"salonpos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AddEmployeeInput struct {
	Name           string           `json:"name" binding:"required"`
	Phone          string           `json:"phone"`
	Role           string           `json:"role"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
}

type UpdateEmployeeInput struct {
	Name           *string          `json:"name"`
	Phone          *string          `json:"phone"`
	Role           *string          `json:"role"`
	CommissionRate *decimal.Decimal `json:"commissionRate"`
	IsActive       *bool            `json:"isActive"`
}

// GetEmployees lists the staff directory for the salon
func GetEmployees(c *gin.Context) {
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

	var staff []models.Staffer
	if err := config.DB.Where("salon_id = ?", salonUUID).Find(&staff).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve employees")
		return
	}

	c.JSON(http.StatusOK, staff)
}

// AddEmployee adds a staff member to the directory
func AddEmployee(c *gin.Context) {
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

	var input AddEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	staffer := models.Staffer{
		SalonID:  salonUUID,
		Name:     input.Name,
		Phone:    input.Phone,
		IsActive: true,
	}
	if input.Role != "" {
		staffer.Role = input.Role
	}
	if input.CommissionRate != nil {
		staffer.CommissionRate = *input.CommissionRate
	}

	if err := config.DB.Create(&staffer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add employee")
		return
	}

	c.JSON(http.StatusCreated, staffer)
}

// UpdateEmployee updates a staff member
func UpdateEmployee(c *gin.Context) {
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

	staffUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	var input UpdateEmployeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var staffer models.Staffer
	if err := config.DB.Where("salon_id = ? AND id = ?", salonUUID, staffUUID).
		First(&staffer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		staffer.Name = *input.Name
	}
	if input.Phone != nil {
		staffer.Phone = *input.Phone
	}
	if input.Role != nil {
		staffer.Role = *input.Role
	}
	if input.CommissionRate != nil {
		staffer.CommissionRate = *input.CommissionRate
	}
	if input.IsActive != nil {
		staffer.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&staffer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update employee")
		return
	}

	c.JSON(http.StatusOK, staffer)
}

// DeleteEmployee removes a staff member from the directory
func DeleteEmployee(c *gin.Context) {
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

	staffUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid employee ID format")
		return
	}

	result := config.DB.Where("salon_id = ? AND id = ?", salonUUID, staffUUID).
		Delete(&models.Staffer{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete employee")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Employee not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
