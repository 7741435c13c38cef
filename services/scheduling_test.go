package services

import (
	"testing"

	"clinicpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDate = "2025-03-10"

func TestCheckAvailabilityRejectsOverlap(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	require.NoError(t, db.Create(scheduledAppointment(prof.ID, testDate, "10:00", "11:00")).Error)

	tests := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"identical slot", "10:00", "11:00", ErrSlotConflict},
		{"overlapping tail", "10:30", "11:30", ErrSlotConflict},
		{"overlapping head", "09:30", "10:30", ErrSlotConflict},
		{"containing", "09:00", "12:00", ErrSlotConflict},
		{"contained", "10:15", "10:45", ErrSlotConflict},
		{"starts at existing end", "11:00", "12:00", nil},
		{"ends at existing start", "09:00", "10:00", nil},
		{"disjoint", "14:00", "15:00", nil},
		{"inverted interval", "12:00", "11:00", ErrInvalidTimeRange},
		{"zero length", "11:00", "11:00", ErrInvalidTimeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAvailability(db, prof.ID, testDate, tt.start, tt.end, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckAvailabilityScopedToProfessionalAndDate(t *testing.T) {
	db := setupTestDB(t)
	profA := createProfessional(t, db, "Ana Silva", 20)
	profB := createProfessional(t, db, "Bruno Costa", 30)

	require.NoError(t, db.Create(scheduledAppointment(profA.ID, testDate, "10:00", "11:00")).Error)

	// another professional is free at the same time
	assert.NoError(t, CheckAvailability(db, profB.ID, testDate, "10:00", "11:00", nil))
	// same professional is free on another day
	assert.NoError(t, CheckAvailability(db, profA.ID, "2025-03-11", "10:00", "11:00", nil))
}

func TestCheckAvailabilityIgnoresNonBlockingAppointments(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	cancelled := scheduledAppointment(prof.ID, testDate, "10:00", "11:00")
	cancelled.Status = models.StatusCancelled
	require.NoError(t, db.Create(cancelled).Error)

	completed := billableAppointment(prof.ID, testDate, "11:00", "12:00", 100)
	require.NoError(t, db.Create(completed).Error)

	deleted := scheduledAppointment(prof.ID, testDate, "12:00", "13:00")
	deleted.IsActive = false
	require.NoError(t, db.Create(deleted).Error)

	// cancelled, completed and soft-deleted appointments never block a booking
	assert.NoError(t, CheckAvailability(db, prof.ID, testDate, "10:00", "11:00", nil))
	assert.NoError(t, CheckAvailability(db, prof.ID, testDate, "11:00", "12:00", nil))
	assert.NoError(t, CheckAvailability(db, prof.ID, testDate, "12:00", "13:00", nil))
}

func TestCheckAvailabilityExcludesSelfOnUpdate(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	appt := scheduledAppointment(prof.ID, testDate, "10:00", "11:00")
	require.NoError(t, db.Create(appt).Error)

	// rescheduling within its own slot must not conflict with itself
	assert.NoError(t, CheckAvailability(db, prof.ID, testDate, "10:00", "11:30", &appt.ID))
	// but still conflicts with others
	other := scheduledAppointment(prof.ID, testDate, "11:30", "12:30")
	require.NoError(t, db.Create(other).Error)
	assert.ErrorIs(t, CheckAvailability(db, prof.ID, testDate, "10:00", "12:00", &appt.ID), ErrSlotConflict)
}

func TestAvailableSlots(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	slots, err := AvailableSlots(db, prof.ID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"09:00", "10:00", "11:00", "12:00", "13:00",
		"14:00", "15:00", "16:00", "17:00",
	}, slots)

	require.NoError(t, db.Create(scheduledAppointment(prof.ID, testDate, "10:00", "11:00")).Error)

	// a completed appointment no longer blocks booking, but the free/busy
	// view still shows its slot as taken
	completed := billableAppointment(prof.ID, testDate, "13:00", "14:00", 100)
	require.NoError(t, db.Create(completed).Error)

	cancelled := scheduledAppointment(prof.ID, testDate, "15:00", "16:00")
	cancelled.Status = models.StatusCancelled
	require.NoError(t, db.Create(cancelled).Error)

	// an off-grid appointment blocks every slot it touches
	require.NoError(t, db.Create(scheduledAppointment(prof.ID, testDate, "16:30", "17:30")).Error)

	slots, err = AvailableSlots(db, prof.ID, testDate)
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00", "12:00", "14:00", "15:00"}, slots)
}
