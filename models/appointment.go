package models

import (
	"time"

	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment types
const (
	TypeRegular   = "regular"
	TypeFirstTime = "first_time"
	TypeEmergency = "emergency"
)

// Appointment is a single session on a professional's calendar. Date is a
// calendar day ("2006-01-02") and StartTime/EndTime are 24h wall-clock
// strings ("HH:MM"); overlap checks compare minute offsets, see
// utils.ToMinutes. PatientName and ProfessionalName are snapshots taken at
// create/update time so history survives renames and deletions.
//
// Appointments are never hard-deleted: IsActive=false marks a logically
// deleted row kept for history.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	PatientID      *uuid.UUID `gorm:"type:uuid;index" json:"patientId"`
	ProfessionalID *uuid.UUID `gorm:"type:uuid;index" json:"professionalId"`

	PatientName      string `gorm:"not null" json:"patientName"`
	ProfessionalName string `gorm:"not null" json:"professionalName"`

	Date      string `gorm:"type:date;index;not null" json:"date"`
	StartTime string `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime   string `gorm:"type:varchar(5);not null" json:"endTime"`

	Type   string `gorm:"type:varchar(20);default:'regular'" json:"type"`
	Status string `gorm:"type:varchar(20);default:'scheduled';index" json:"status"`

	// Attended stays nil until the outcome is recorded. PaymentAmount and
	// NoShowPaymentAmount are mutually exclusive: a no-show has no session
	// balance, an attended session has no no-show fee.
	Attended            *bool    `json:"attended"`
	SessionCost         *float64 `gorm:"type:decimal(10,2)" json:"sessionCost"`
	PaymentAmount       *float64 `gorm:"type:decimal(10,2)" json:"paymentAmount"`
	NoShowPaymentAmount *float64 `gorm:"type:decimal(10,2)" json:"noShowPaymentAmount"`
	RemainingBalance    *float64 `gorm:"type:decimal(10,2)" json:"remainingBalance"`

	Notes        string `gorm:"type:text" json:"notes"`
	AudioNoteRef string `json:"audioNoteRef"` // opaque reference, upload storage lives elsewhere

	CompletedAt *time.Time `json:"completedAt"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`

	gorm.Model `json:"-"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

// Billable reports whether this appointment's session cost counts toward its
// professional's accrued revenue: completed, attended, and not soft-deleted.
func (a *Appointment) Billable() bool {
	return a.IsActive && a.Status == StatusCompleted && a.Attended != nil && *a.Attended
}

// BillableCost is the amount this appointment currently contributes to its
// professional's accrued revenue; zero when not billable or unpriced.
func (a *Appointment) BillableCost() float64 {
	if !a.Billable() || a.SessionCost == nil {
		return 0
	}
	return *a.SessionCost
}

// Recalculate applies the derived-field rules after any mutation, in order:
//  1. CompletedAt is set when the status first reaches completed and cleared
//     on any other status.
//  2. attended=false wipes PaymentAmount and RemainingBalance (only an
//     optional no-show fee remains); attended=true wipes NoShowPaymentAmount.
//  3. RemainingBalance = max(sessionCost - paymentAmount, 0), rounded to
//     2 decimals, or nil when neither amount is known.
func (a *Appointment) Recalculate(now time.Time) {
	if a.Status == StatusCompleted {
		if a.CompletedAt == nil {
			t := now
			a.CompletedAt = &t
		}
	} else {
		a.CompletedAt = nil
	}

	if a.Attended != nil && !*a.Attended {
		a.PaymentAmount = nil
		a.RemainingBalance = nil
		return
	}
	if a.Attended != nil && *a.Attended {
		a.NoShowPaymentAmount = nil
	}

	if a.SessionCost == nil && a.PaymentAmount == nil {
		a.RemainingBalance = nil
		return
	}

	var cost, paid float64
	if a.SessionCost != nil {
		cost = *a.SessionCost
	}
	if a.PaymentAmount != nil {
		paid = *a.PaymentAmount
	}
	remaining := utils.Round2(cost - paid)
	if remaining < 0 {
		remaining = 0
	}
	a.RemainingBalance = &remaining
}
