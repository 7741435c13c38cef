package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditBalancesReportsDrift(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	appt := billableAppointment(prof.ID, testDate, "10:00", "11:00", 600)
	require.NoError(t, db.Create(appt).Error)

	// balance was never updated through the ledger: drift of 600
	drifts, err := AuditBalances(db)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, prof.ID, drifts[0].ProfessionalID)
	assert.Equal(t, 0.0, drifts[0].Stored)
	assert.Equal(t, 600.0, drifts[0].Computed)

	// repairing through the ledger clears the report
	require.NoError(t, ApplyBillableDelta(db, prof.ID, 600))
	drifts, err = AuditBalances(db)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestAuditBalancesIgnoresNonBillable(t *testing.T) {
	db := setupTestDB(t)
	prof := createProfessional(t, db, "Ana Silva", 20)

	scheduled := scheduledAppointment(prof.ID, testDate, "09:00", "10:00")
	cost := 100.0
	scheduled.SessionCost = &cost
	require.NoError(t, db.Create(scheduled).Error)

	noShow := billableAppointment(prof.ID, testDate, "10:00", "11:00", 200)
	attended := false
	noShow.Attended = &attended
	require.NoError(t, db.Create(noShow).Error)

	deleted := billableAppointment(prof.ID, testDate, "11:00", "12:00", 300)
	deleted.IsActive = false
	require.NoError(t, db.Create(deleted).Error)

	drifts, err := AuditBalances(db)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestStartBalanceAuditor(t *testing.T) {
	db := setupTestDB(t)

	c := StartBalanceAuditor(db)
	defer c.Stop()

	require.Len(t, c.Entries(), 1)
}
