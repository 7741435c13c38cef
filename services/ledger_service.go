// services/ledger_service.go
//
// The settlement ledger owns the two per-professional balances: accrued
// revenue (sum of session costs over currently billable appointments) and
// owed amount (accrued revenue weighted by the commission rate). Every write
// goes through ApplyBillableDelta or SettleBalance, both of which hold an
// exclusive row lock on the professional for the read-modify-write, so
// concurrent updates to the same balance serialize instead of losing writes.
package services

import (
	"errors"
	"sort"
	"time"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a FOR UPDATE clause on dialects that support row locks.
// SQLite has a single writer, so the clause is unnecessary there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// ApplyBillableDelta adds amount (which may be negative) to the
// professional's accrued revenue, then recomputes the owed amount from the
// current commission rate, clamping the rate if it is out of range. Must run
// inside the same transaction that persists the appointment causing it.
func ApplyBillableDelta(tx *gorm.DB, professionalID uuid.UUID, amount float64) error {
	var prof models.User
	if err := lockForUpdate(tx).Where("id = ?", professionalID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessionalNotFound
		}
		return err
	}

	accrued := utils.Round2(prof.AccruedRevenue + amount)
	rate := utils.ClampRate(prof.CommissionRate)
	owed := utils.Round2(accrued * float64(rate) / 100)

	return tx.Model(&models.User{}).Where("id = ?", prof.ID).
		Updates(map[string]interface{}{
			"accrued_revenue": accrued,
			"commission_rate": rate,
			"owed_amount":     owed,
		}).Error
}

// BalanceDelta is one signed adjustment against one professional's balance.
type BalanceDelta struct {
	ProfessionalID uuid.UUID
	Amount         float64
}

// AppointmentDeltas compares an appointment before and after a mutation and
// returns the balance adjustments it implies. Pass nil before for a freshly
// created appointment and nil after for a soft delete. When the professional
// changed, the reversal and the new contribution come back as two deltas
// ordered by ascending professional id, so two concurrent reassignments that
// swap a pair of professionals always lock the rows in the same order.
func AppointmentDeltas(before, after *models.Appointment) []BalanceDelta {
	prevCost, prevProf := billableContribution(before)
	nextCost, nextProf := billableContribution(after)

	var deltas []BalanceDelta
	switch {
	case prevProf == nil && nextProf == nil:
		// neither side billable
	case prevProf != nil && nextProf != nil && *prevProf == *nextProf:
		if d := utils.Round2(nextCost - prevCost); d != 0 {
			deltas = append(deltas, BalanceDelta{ProfessionalID: *prevProf, Amount: d})
		}
	default:
		if prevProf != nil && prevCost != 0 {
			deltas = append(deltas, BalanceDelta{ProfessionalID: *prevProf, Amount: -prevCost})
		}
		if nextProf != nil && nextCost != 0 {
			deltas = append(deltas, BalanceDelta{ProfessionalID: *nextProf, Amount: nextCost})
		}
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].ProfessionalID.String() < deltas[j].ProfessionalID.String()
	})
	return deltas
}

func billableContribution(a *models.Appointment) (float64, *uuid.UUID) {
	if a == nil || !a.Billable() || a.ProfessionalID == nil {
		return 0, nil
	}
	return a.BillableCost(), a.ProfessionalID
}

// ApplyAppointmentChange applies every balance adjustment implied by an
// appointment mutation, inside the caller's transaction.
func ApplyAppointmentChange(tx *gorm.DB, before, after *models.Appointment) error {
	for _, delta := range AppointmentDeltas(before, after) {
		if err := ApplyBillableDelta(tx, delta.ProfessionalID, delta.Amount); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeOwed refreshes a professional's owed amount after an
// administrative commission rate edit, from the current accrued revenue.
func RecomputeOwed(tx *gorm.DB, professionalID uuid.UUID, rate int) error {
	var prof models.User
	if err := lockForUpdate(tx).Where("id = ?", professionalID).First(&prof).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfessionalNotFound
		}
		return err
	}

	clamped := utils.ClampRate(rate)
	owed := utils.Round2(prof.AccruedRevenue * float64(clamped) / 100)

	return tx.Model(&models.User{}).Where("id = ?", prof.ID).
		Updates(map[string]interface{}{
			"commission_rate": clamped,
			"owed_amount":     owed,
		}).Error
}

// SettlementResult reports the outcome of one settlement payment.
type SettlementResult struct {
	OwedAmount float64                  `json:"owedAmount"`
	PaidInFull bool                     `json:"paidInFull"`
	Payment    models.SettlementPayment `json:"payment"`
}

// SettleBalance records a payment toward a professional's owed amount and
// appends the immutable payment record in the same transaction. Overpayment
// is clamped to zero rather than rejected or carried as credit. A payment
// that drives the owed amount to exactly zero closes the accrual period:
// accrued revenue resets to zero and later billable appointments start a
// fresh accrual.
func SettleBalance(db *gorm.DB, professionalID uuid.UUID, amount float64) (*SettlementResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var result SettlementResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var prof models.User
		if err := lockForUpdate(tx).Where("id = ? AND role = ?", professionalID, models.RoleProfessional).
			First(&prof).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProfessionalNotFound
			}
			return err
		}

		owedBefore := prof.OwedAmount
		newOwed := utils.Round2(owedBefore - amount)
		if newOwed < 0 {
			newOwed = 0
		}
		paidInFull := newOwed == 0 && owedBefore > 0

		updates := map[string]interface{}{"owed_amount": newOwed}
		if paidInFull {
			updates["accrued_revenue"] = 0.0
		}
		if err := tx.Model(&models.User{}).Where("id = ?", prof.ID).Updates(updates).Error; err != nil {
			return err
		}

		payment := models.SettlementPayment{
			ProfessionalID:   prof.ID,
			ProfessionalName: prof.Name,
			Amount:           utils.Round2(amount),
			Date:             time.Now(),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		result = SettlementResult{OwedAmount: newOwed, PaidInFull: paidInFull, Payment: payment}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
