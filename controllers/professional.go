// controllers/professional.go
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

// AddProfessionalInput defines the expected JSON structure for adding a professional
type AddProfessionalInput struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Password       string `json:"password" binding:"required,min=8"`
	CommissionRate int    `json:"commissionRate" binding:"min=0,max=100"`
}

// UpdateProfessionalInput defines the expected JSON structure for updating a professional
type UpdateProfessionalInput struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	CommissionRate *int    `json:"commissionRate"`
	IsActive       *bool   `json:"isActive"`
}

// GetProfessionals retrieves all professionals
func GetProfessionals(c *gin.Context) {
	var professionals []models.User
	if err := config.DB.Where("role = ?", models.RoleProfessional).
		Find(&professionals).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve professionals")
		return
	}

	c.JSON(http.StatusOK, professionals)
}

// AddProfessional creates a new professional account
func AddProfessional(c *gin.Context) {
	var input AddProfessionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if email already exists
	var existingUser models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existingUser).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	professional := models.User{
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Password:       input.Password, // Will be hashed in BeforeCreate hook
		Role:           models.RoleProfessional,
		CommissionRate: input.CommissionRate,
		IsActive:       true,
	}

	if err := config.DB.Create(&professional).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create professional")
		return
	}

	c.JSON(http.StatusCreated, professional)
}

// UpdateProfessional updates an existing professional. Changing the
// commission rate immediately recomputes the owed amount from the current
// accrued revenue.
func UpdateProfessional(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}

	var input UpdateProfessionalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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

	// Update fields if provided
	if input.Name != nil {
		professional.Name = *input.Name
	}
	if input.Email != nil {
		professional.Email = *input.Email
	}
	if input.Phone != nil {
		professional.Phone = *input.Phone
	}
	if input.IsActive != nil {
		professional.IsActive = *input.IsActive
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.User{}).Where("id = ?", professional.ID).
		Updates(map[string]interface{}{
			"name":      professional.Name,
			"email":     professional.Email,
			"phone":     professional.Phone,
			"is_active": professional.IsActive,
		}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update professional")
		return
	}

	if input.CommissionRate != nil {
		if err := services.RecomputeOwed(tx, professional.ID, *input.CommissionRate); err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to recompute owed amount")
			return
		}
	}

	tx.Commit()

	// Re-read so the response reflects the recomputed balance
	if err := config.DB.Where("id = ?", professional.ID).First(&professional).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, professional)
}

// DeleteProfessional soft deletes a professional account
func DeleteProfessional(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}

	result := config.DB.Model(&models.User{}).
		Where("id = ? AND role = ? AND is_active = ?", professionalUUID, models.RoleProfessional, true).
		Update("is_active", false)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete professional")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Professional deleted successfully"})
}
