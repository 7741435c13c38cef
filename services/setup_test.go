package services

import (
	"fmt"
	"strings"
	"testing"

	"clinicpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test so every connection in the
	// pool sees the same data
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.Appointment{},
		&models.SettlementPayment{},
	))
	return db
}

func createProfessional(t *testing.T, db *gorm.DB, name string, rate int) *models.User {
	t.Helper()
	prof := &models.User{
		Name:           name,
		Email:          strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@clinic.test",
		Role:           models.RoleProfessional,
		CommissionRate: rate,
		IsActive:       true,
	}
	require.NoError(t, db.Create(prof).Error)
	return prof
}

func reload(t *testing.T, db *gorm.DB, id uuid.UUID) *models.User {
	t.Helper()
	var prof models.User
	require.NoError(t, db.Where("id = ?", id).First(&prof).Error)
	return &prof
}

func scheduledAppointment(profID uuid.UUID, date, start, end string) *models.Appointment {
	return &models.Appointment{
		ProfessionalID:   &profID,
		PatientName:      "Test Patient",
		ProfessionalName: "Test Professional",
		Date:             date,
		StartTime:        start,
		EndTime:          end,
		Type:             models.TypeRegular,
		Status:           models.StatusScheduled,
		IsActive:         true,
	}
}

func billableAppointment(profID uuid.UUID, date, start, end string, cost float64) *models.Appointment {
	attended := true
	appt := scheduledAppointment(profID, date, start, end)
	appt.Status = models.StatusCompleted
	appt.Attended = &attended
	appt.SessionCost = &cost
	return appt
}
