// controllers/settlement.go
package controllers

import (
	"errors"
	"net/http"

	"clinicpro-backend/config"
	"clinicpro-backend/models"
	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettleBalanceInput defines the expected JSON structure for recording a settlement payment
type SettleBalanceInput struct {
	Amount float64 `json:"amount" binding:"required"`
}

// SettleBalance records a payment toward a professional's owed amount
func SettleBalance(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}

	var input SettleBalanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := services.SettleBalance(config.DB, professionalUUID, input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidAmount):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrProfessionalNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to settle balance")
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetSettlements lists the settlement payments recorded for a professional,
// most recent first
func GetSettlements(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}

	var payments []models.SettlementPayment
	if err := config.DB.Where("professional_id = ?", professionalUUID).
		Order("date DESC").Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve settlements")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// GetBalance returns the current balance projection for a professional
func GetBalance(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}

	var professional models.User
	if err := config.DB.Where("id = ? AND role = ?", professionalUUID, models.RoleProfessional).
		First(&professional).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"professionalId": professional.ID,
		"name":           professional.Name,
		"commissionRate": professional.CommissionRate,
		"accruedRevenue": professional.AccruedRevenue,
		"owedAmount":     professional.OwedAmount,
	})
}
