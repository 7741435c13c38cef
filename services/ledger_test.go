package services

import (
	"testing"

	"clinicpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApplyBillableDelta(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	require.NoError(t, ApplyBillableDelta(db, prof.ID, 1000))

	got := reload(t, db, prof.ID)
	assert.Equal(t, 1000.0, got.AccruedRevenue)
	assert.Equal(t, 200.0, got.OwedAmount)

	// negative deltas reverse contributions
	require.NoError(t, ApplyBillableDelta(db, prof.ID, -400))
	got = reload(t, db, prof.ID)
	assert.Equal(t, 600.0, got.AccruedRevenue)
	assert.Equal(t, 120.0, got.OwedAmount)

	assert.ErrorIs(t, ApplyBillableDelta(db, uuid.New(), 100), ErrProfessionalNotFound)
}

func TestAppointmentDeltas(t *testing.T) {
	profA := uuid.New()
	profB := uuid.New()

	scheduled := scheduledAppointment(profA, testDate, "10:00", "11:00")
	billable := billableAppointment(profA, testDate, "10:00", "11:00", 1000)

	// creation of a non-billable appointment
	assert.Empty(t, AppointmentDeltas(nil, scheduled))

	// becoming billable
	deltas := AppointmentDeltas(scheduled, billable)
	require.Len(t, deltas, 1)
	assert.Equal(t, profA, deltas[0].ProfessionalID)
	assert.Equal(t, 1000.0, deltas[0].Amount)

	// no-op update produces zero deltas
	assert.Empty(t, AppointmentDeltas(billable, billable))

	// cost change while billable
	repriced := billableAppointment(profA, testDate, "10:00", "11:00", 1250)
	deltas = AppointmentDeltas(billable, repriced)
	require.Len(t, deltas, 1)
	assert.Equal(t, 250.0, deltas[0].Amount)

	// losing the billable classification
	cancelled := billableAppointment(profA, testDate, "10:00", "11:00", 1000)
	cancelled.Status = models.StatusCancelled
	deltas = AppointmentDeltas(billable, cancelled)
	require.Len(t, deltas, 1)
	assert.Equal(t, -1000.0, deltas[0].Amount)

	// soft delete reverses the open contribution
	deltas = AppointmentDeltas(billable, nil)
	require.Len(t, deltas, 1)
	assert.Equal(t, -1000.0, deltas[0].Amount)

	// reassignment yields one reversal and one contribution, ordered by id
	moved := billableAppointment(profB, testDate, "10:00", "11:00", 1000)
	deltas = AppointmentDeltas(billable, moved)
	require.Len(t, deltas, 2)
	assert.True(t, deltas[0].ProfessionalID.String() < deltas[1].ProfessionalID.String())
	byProf := map[uuid.UUID]float64{}
	for _, d := range deltas {
		byProf[d.ProfessionalID] = d.Amount
	}
	assert.Equal(t, -1000.0, byProf[profA])
	assert.Equal(t, 1000.0, byProf[profB])
}

func TestApplyAppointmentChangeReassignment(t *testing.T) {
	db := setupTestDB(t)
	profA := createProfessional(t, db, "Ana Silva", 20)
	profB := createProfessional(t, db, "Bruno Costa", 50)

	before := billableAppointment(profA.ID, testDate, "10:00", "11:00", 500)
	require.NoError(t, db.Create(before).Error)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyAppointmentChange(tx, nil, before)
	}))

	gotA := reload(t, db, profA.ID)
	assert.Equal(t, 500.0, gotA.AccruedRevenue)
	assert.Equal(t, 100.0, gotA.OwedAmount)

	// reassign the appointment to the other professional
	after := billableAppointment(profB.ID, testDate, "10:00", "11:00", 500)
	after.ID = before.ID
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyAppointmentChange(tx, before, after)
	}))

	gotA = reload(t, db, profA.ID)
	gotB := reload(t, db, profB.ID)
	assert.Equal(t, 0.0, gotA.AccruedRevenue)
	assert.Equal(t, 0.0, gotA.OwedAmount)
	assert.Equal(t, 500.0, gotB.AccruedRevenue)
	// each side recomputes from its own commission rate
	assert.Equal(t, 250.0, gotB.OwedAmount)
}

func TestSettleBalance(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	// appointment completed and attended: accrued 1000, owed 200
	appt := billableAppointment(prof.ID, testDate, "10:00", "11:00", 1000)
	require.NoError(t, db.Create(appt).Error)
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return ApplyAppointmentChange(tx, nil, appt)
	}))

	// partial settlement
	result, err := SettleBalance(db, prof.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 150.0, result.OwedAmount)
	assert.False(t, result.PaidInFull)

	got := reload(t, db, prof.ID)
	assert.Equal(t, 150.0, got.OwedAmount)
	assert.Equal(t, 1000.0, got.AccruedRevenue) // accrual untouched until paid in full

	// full settlement closes the accrual period
	result, err = SettleBalance(db, prof.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.OwedAmount)
	assert.True(t, result.PaidInFull)

	got = reload(t, db, prof.ID)
	assert.Equal(t, 0.0, got.OwedAmount)
	assert.Equal(t, 0.0, got.AccruedRevenue)

	// one immutable payment record per settlement
	var payments []models.SettlementPayment
	require.NoError(t, db.Where("professional_id = ?", prof.ID).Order("amount").Find(&payments).Error)
	require.Len(t, payments, 2)
	assert.Equal(t, 50.0, payments[0].Amount)
	assert.Equal(t, 150.0, payments[1].Amount)
	assert.Equal(t, prof.Name, payments[0].ProfessionalName)
}

func TestSettleBalanceOverpaymentClampsToZero(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)
	require.NoError(t, ApplyBillableDelta(db, prof.ID, 1000)) // owed 200

	result, err := SettleBalance(db, prof.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.OwedAmount)
	assert.True(t, result.PaidInFull)

	got := reload(t, db, prof.ID)
	assert.Equal(t, 0.0, got.OwedAmount)
	assert.Equal(t, 0.0, got.AccruedRevenue)

	// overpaying an already-zero balance is not a full settlement
	result, err = SettleBalance(db, prof.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.OwedAmount)
	assert.False(t, result.PaidInFull)
}

func TestSettleBalanceValidation(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	_, err := SettleBalance(db, prof.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = SettleBalance(db, prof.ID, -50)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = SettleBalance(db, uuid.New(), 50)
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
}

func TestRecomputeOwed(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)
	require.NoError(t, ApplyBillableDelta(db, prof.ID, 1000))

	// rate edit recomputes owed from the current accrual
	require.NoError(t, RecomputeOwed(db, prof.ID, 35))
	got := reload(t, db, prof.ID)
	assert.Equal(t, 35, got.CommissionRate)
	assert.Equal(t, 350.0, got.OwedAmount)

	// malformed rates clamp instead of rejecting
	require.NoError(t, RecomputeOwed(db, prof.ID, 150))
	got = reload(t, db, prof.ID)
	assert.Equal(t, 100, got.CommissionRate)
	assert.Equal(t, 1000.0, got.OwedAmount)
}

func TestBalanceConservation(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 25)

	// create three appointments, complete two, delete one of the completed
	var appts []*models.Appointment
	for i, cost := range []float64{300, 450.50, 200} {
		start := []string{"09:00", "10:00", "11:00"}[i]
		end := []string{"10:00", "11:00", "12:00"}[i]
		appt := scheduledAppointment(prof.ID, testDate, start, end)
		appt.SessionCost = &cost
		require.NoError(t, db.Create(appt).Error)
		appts = append(appts, appt)
	}

	complete := func(appt *models.Appointment) {
		before := *appt
		attended := true
		appt.Status = models.StatusCompleted
		appt.Attended = &attended
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			if err := ApplyAppointmentChange(tx, &before, appt); err != nil {
				return err
			}
			return tx.Save(appt).Error
		}))
	}

	complete(appts[0])
	complete(appts[1])

	got := reload(t, db, prof.ID)
	assert.Equal(t, 750.5, got.AccruedRevenue)
	assert.Equal(t, 187.63, got.OwedAmount) // round2(750.50 * 0.25)

	// soft delete reverses the first contribution
	before := *appts[0]
	appts[0].IsActive = false
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if err := ApplyAppointmentChange(tx, &before, appts[0]); err != nil {
			return err
		}
		return tx.Model(appts[0]).Update("is_active", false).Error
	}))

	got = reload(t, db, prof.ID)
	assert.Equal(t, 450.5, got.AccruedRevenue)

	// stored balance now matches the sum over billable appointments
	drifts, err := AuditBalances(db)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
