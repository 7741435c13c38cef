// services/scheduling_service.go
package services

import (
	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The daily booking grid: nine 60-minute slots from 09:00 through 17:00.
var dailySlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00",
}

const slotDurationMinutes = 60

// CheckAvailability decides whether a candidate interval may occupy a slot
// on the professional's calendar for that date. Only active appointments
// still in 'scheduled' status block a booking: cancelled ones are gone and
// completed ones are in the past. When updating an existing appointment,
// pass its id as excludeID so it does not conflict with itself.
func CheckAvailability(db *gorm.DB, professionalID uuid.UUID, date, startTime, endTime string, excludeID *uuid.UUID) error {
	start := utils.ToMinutes(startTime)
	end := utils.ToMinutes(endTime)
	if end <= start {
		return ErrInvalidTimeRange
	}

	query := db.Where(
		"professional_id = ? AND date = ? AND is_active = ? AND status = ?",
		professionalID, date, true, models.StatusScheduled,
	)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var existing []models.Appointment
	if err := query.Find(&existing).Error; err != nil {
		return err
	}

	for _, appt := range existing {
		if utils.IntervalsOverlap(start, end, utils.ToMinutes(appt.StartTime), utils.ToMinutes(appt.EndTime)) {
			return ErrSlotConflict
		}
	}
	return nil
}

// AvailableSlots returns the free slots of the daily grid for a professional
// on one date, in grid order. This is the free/busy view, and it is
// intentionally broader than CheckAvailability: a completed appointment no
// longer blocks a new booking, but its slot still shows as busy here.
func AvailableSlots(db *gorm.DB, professionalID uuid.UUID, date string) ([]string, error) {
	var booked []models.Appointment
	if err := db.Where(
		"professional_id = ? AND date = ? AND is_active = ? AND status <> ?",
		professionalID, date, true, models.StatusCancelled,
	).Find(&booked).Error; err != nil {
		return nil, err
	}

	free := make([]string, 0, len(dailySlots))
	for _, slot := range dailySlots {
		slotStart := utils.ToMinutes(slot)
		slotEnd := slotStart + slotDurationMinutes

		busy := false
		for _, appt := range booked {
			if utils.IntervalsOverlap(slotStart, slotEnd, utils.ToMinutes(appt.StartTime), utils.ToMinutes(appt.EndTime)) {
				busy = true
				break
			}
		}
		if !busy {
			free = append(free, slot)
		}
	}
	return free, nil
}
