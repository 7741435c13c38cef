package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementPayment is an immutable ledger entry recording a payment made to
// a professional against their owed amount. Entries are only ever created;
// the normal flow never updates or deletes one.
type SettlementPayment struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProfessionalID   uuid.UUID `gorm:"type:uuid;index;not null" json:"professionalId"`
	ProfessionalName string    `gorm:"not null" json:"professionalName"` // snapshot
	Amount           float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Date             time.Time `gorm:"not null" json:"date"`

	CreatedAt time.Time `json:"createdAt"`
}

func (s *SettlementPayment) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
