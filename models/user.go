package models

import (
	"time"

	"clinicpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
)

// User is a clinic staff member. Professionals additionally carry the
// commission balance projection: AccruedRevenue is the running sum of
// session costs over their currently billable appointments, and OwedAmount
// is AccruedRevenue weighted by CommissionRate. Both fields are written only
// through the ledger service so every caller goes through the same
// lock-and-recompute path.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	Role string `gorm:"type:varchar(20);not null" json:"role"` // 'admin' or 'professional'

	CommissionRate int     `gorm:"default:0" json:"commissionRate"` // percent, clamped to [0,100]
	AccruedRevenue float64 `gorm:"type:decimal(10,2);default:0.0" json:"accruedRevenue"`
	OwedAmount     float64 `gorm:"type:decimal(10,2);default:0.0" json:"owedAmount"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	gorm.Model `json:"-"`
}

// Initialize UUID and hash password before creating
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CommissionRate = utils.ClampRate(u.CommissionRate)
	if u.Password != "" {
		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashed
	}
	return
}
