package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Patient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index" json:"createdByUserId"`

	Name      string     `gorm:"not null" json:"name"`
	Phone     string     `gorm:"not null;uniqueIndex" json:"phone"`
	Email     string     `json:"email"`
	Birthday  *time.Time `json:"birthday"`
	Notes     string     `gorm:"type:text" json:"notes"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`

	gorm.Model `json:"-"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
