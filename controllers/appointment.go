// controllers/appointment.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"clinicpro-backend/config"
	"clinicpro-backend/models"
	"clinicpro-backend/services"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for creating an appointment
type CreateAppointmentInput struct {
	PatientID      uuid.UUID `json:"patientId" binding:"required"`
	ProfessionalID uuid.UUID `json:"professionalId" binding:"required"`
	Date           string    `json:"date" binding:"required"`
	StartTime      string    `json:"startTime" binding:"required"`
	EndTime        string    `json:"endTime" binding:"required"`
	Type           string    `json:"type" binding:"omitempty,oneof=regular first_time emergency"`
	SessionCost    *float64  `json:"sessionCost" binding:"omitempty,min=0"`
	Notes          string    `json:"notes"`
	AudioNoteRef   string    `json:"audioNoteRef"`
}

// UpdateAppointmentInput defines the expected JSON structure for updating an appointment
type UpdateAppointmentInput struct {
	PatientID           *uuid.UUID `json:"patientId"`
	ProfessionalID      *uuid.UUID `json:"professionalId"`
	Date                *string    `json:"date"`
	StartTime           *string    `json:"startTime"`
	EndTime             *string    `json:"endTime"`
	Type                *string    `json:"type" binding:"omitempty,oneof=regular first_time emergency"`
	Status              *string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Attended            *bool      `json:"attended"`
	SessionCost         *float64   `json:"sessionCost" binding:"omitempty,min=0"`
	PaymentAmount       *float64   `json:"paymentAmount" binding:"omitempty,min=0"`
	NoShowPaymentAmount *float64   `json:"noShowPaymentAmount" binding:"omitempty,min=0"`
	Notes               *string    `json:"notes"`
	AudioNoteRef        *string    `json:"audioNoteRef"`
}

// CreateAppointment books a new appointment on a professional's calendar
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidateDate(input.Date) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}
	if !utils.ValidateTime(input.StartTime) || !utils.ValidateTime(input.EndTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time format, expected HH:MM")
		return
	}

	// Validate patient exists and is active
	var patient models.Patient
	if err := config.DB.Where("id = ? AND is_active = ?", input.PatientID, true).
		First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Validate professional exists and is active
	var professional models.User
	if err := config.DB.Where("id = ? AND role = ? AND is_active = ?",
		input.ProfessionalID, models.RoleProfessional, true).
		First(&professional).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	apptType := input.Type
	if apptType == "" {
		apptType = models.TypeRegular
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Reject on overlap before anything is persisted
	if err := services.CheckAvailability(tx, professional.ID, input.Date, input.StartTime, input.EndTime, nil); err != nil {
		tx.Rollback()
		switch {
		case errors.Is(err, services.ErrSlotConflict):
			utils.RespondWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrInvalidTimeRange):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	patientID := patient.ID
	professionalID := professional.ID
	appointment := models.Appointment{
		PatientID:        &patientID,
		ProfessionalID:   &professionalID,
		PatientName:      patient.Name,
		ProfessionalName: professional.Name,
		Date:             input.Date,
		StartTime:        input.StartTime,
		EndTime:          input.EndTime,
		Type:             apptType,
		Status:           models.StatusScheduled,
		SessionCost:      input.SessionCost,
		Notes:            input.Notes,
		AudioNoteRef:     input.AudioNoteRef,
		IsActive:         true,
	}
	appointment.Recalculate(time.Now())

	if err := tx.Create(&appointment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	// A fresh appointment starts as scheduled and is never billable, but the
	// ledger is still the single write path for balance effects
	if err := services.ApplyAppointmentChange(tx, nil, &appointment); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update professional balance")
		return
	}

	tx.Commit()

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves appointments, optionally filtered by
// professional, patient, date or status
func GetAppointments(c *gin.Context) {
	query := config.DB.Where("is_active = ?", true)

	if p := c.Query("professionalId"); p != "" {
		professionalUUID, err := uuid.Parse(p)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
			return
		}
		query = query.Where("professional_id = ?", professionalUUID)
	}
	if p := c.Query("patientId"); p != "" {
		patientUUID, err := uuid.Parse(p)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid patient ID format")
			return
		}
		query = query.Where("patient_id = ?", patientUUID)
	}
	if d := c.Query("date"); d != "" {
		query = query.Where("date = ?", d)
	}
	if s := c.Query("status"); s != "" {
		query = query.Where("status = ?", s)
	}

	var appointments []models.Appointment
	if err := query.Order("date, start_time").Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("id = ? AND is_active = ?", appointmentUUID, true).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment mutates an appointment through the lifecycle rules:
// reschedules re-run the overlap guard against the resulting slot, outcome
// fields are recomputed in order, and any change to the billable
// classification adjusts the professional balances in the same transaction.
func UpdateAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Date != nil && !utils.ValidateDate(*input.Date) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}
	if input.StartTime != nil && !utils.ValidateTime(*input.StartTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time format, expected HH:MM")
		return
	}
	if input.EndTime != nil && !utils.ValidateTime(*input.EndTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time format, expected HH:MM")
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Retrieve existing appointment
	var appointment models.Appointment
	if err := tx.Where("id = ? AND is_active = ?", appointmentUUID, true).
		First(&appointment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Snapshot of the state before the update, for the balance delta
	before := appointment

	// Reassigning the patient requires the target to exist and be active,
	// and refreshes the name snapshot
	if input.PatientID != nil && (appointment.PatientID == nil || *input.PatientID != *appointment.PatientID) {
		var patient models.Patient
		if err := tx.Where("id = ? AND is_active = ?", *input.PatientID, true).
			First(&patient).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Patient not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		patientID := patient.ID
		appointment.PatientID = &patientID
		appointment.PatientName = patient.Name
	}

	professionalChanged := false
	if input.ProfessionalID != nil && (appointment.ProfessionalID == nil || *input.ProfessionalID != *appointment.ProfessionalID) {
		var professional models.User
		if err := tx.Where("id = ? AND role = ? AND is_active = ?",
			*input.ProfessionalID, models.RoleProfessional, true).
			First(&professional).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		professionalID := professional.ID
		appointment.ProfessionalID = &professionalID
		appointment.ProfessionalName = professional.Name
		professionalChanged = true
	}

	scheduleChanged := professionalChanged
	if input.Date != nil && *input.Date != appointment.Date {
		appointment.Date = *input.Date
		scheduleChanged = true
	}
	if input.StartTime != nil && *input.StartTime != appointment.StartTime {
		appointment.StartTime = *input.StartTime
		scheduleChanged = true
	}
	if input.EndTime != nil && *input.EndTime != appointment.EndTime {
		appointment.EndTime = *input.EndTime
		scheduleChanged = true
	}

	// Re-run the guard against the resulting identity, excluding self
	if scheduleChanged && appointment.ProfessionalID != nil {
		if err := services.CheckAvailability(tx, *appointment.ProfessionalID,
			appointment.Date, appointment.StartTime, appointment.EndTime, &appointment.ID); err != nil {
			tx.Rollback()
			switch {
			case errors.Is(err, services.ErrSlotConflict):
				utils.RespondWithError(c, http.StatusConflict, err.Error())
			case errors.Is(err, services.ErrInvalidTimeRange):
				utils.RespondWithError(c, http.StatusBadRequest, err.Error())
			default:
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	if input.Type != nil {
		appointment.Type = *input.Type
	}
	if input.Status != nil {
		appointment.Status = *input.Status
	}
	if input.Attended != nil {
		appointment.Attended = input.Attended
	}
	if input.SessionCost != nil {
		appointment.SessionCost = input.SessionCost
	}
	if input.PaymentAmount != nil {
		appointment.PaymentAmount = input.PaymentAmount
	}
	if input.NoShowPaymentAmount != nil {
		appointment.NoShowPaymentAmount = input.NoShowPaymentAmount
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}
	if input.AudioNoteRef != nil {
		appointment.AudioNoteRef = *input.AudioNoteRef
	}

	appointment.Recalculate(time.Now())

	// Balance effects land in the same transaction as the appointment row,
	// so the two can never be observed out of sync
	if err := services.ApplyAppointmentChange(tx, &before, &appointment); err != nil {
		tx.Rollback()
		if errors.Is(err, services.ErrProfessionalNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Professional not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update professional balance")
		}
		return
	}

	if err := tx.Save(&appointment).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment soft deletes an appointment, reversing any open billable
// contribution in the same transaction
func DeleteAppointment(c *gin.Context) {
	appointmentUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	// Start transaction
	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var appointment models.Appointment
	if err := tx.Where("id = ? AND is_active = ?", appointmentUUID, true).
		First(&appointment).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := services.ApplyAppointmentChange(tx, &appointment, nil); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update professional balance")
		return
	}

	if err := tx.Model(&appointment).Update("is_active", false).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

// GetAvailableSlots returns the free slots of the daily grid for one
// professional and date
func GetAvailableSlots(c *gin.Context) {
	professionalUUID, err := uuid.Parse(c.Query("professionalId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid professional ID format")
		return
	}
	date := c.Query("date")
	if !utils.ValidateDate(date) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	slots, err := services.AvailableSlots(config.DB, professionalUUID, date)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute available slots")
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": date, "availableSlots": slots})
}
