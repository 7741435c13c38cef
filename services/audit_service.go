// services/audit_service.go
package services

import (
	"log"

	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/google/uuid"
	cron "github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// BalanceDrift reports a professional whose stored accrued revenue disagrees
// with the sum over their billable appointments.
type BalanceDrift struct {
	ProfessionalID uuid.UUID `json:"professionalId"`
	Name           string    `json:"name"`
	Stored         float64   `json:"stored"`
	Computed       float64   `json:"computed"`
}

// AuditBalances recomputes every professional's accrued revenue from their
// currently billable appointments (completed, attended, active) and returns
// the ones that drifted. The ledger keeps the stored value correct; this is
// a conservation check, not a repair path.
func AuditBalances(db *gorm.DB) ([]BalanceDrift, error) {
	var professionals []models.User
	if err := db.Where("role = ?", models.RoleProfessional).Find(&professionals).Error; err != nil {
		return nil, err
	}

	var drifts []BalanceDrift
	for _, prof := range professionals {
		var computed float64
		err := db.Model(&models.Appointment{}).
			Where("professional_id = ? AND status = ? AND attended = ? AND is_active = ?",
				prof.ID, models.StatusCompleted, true, true).
			Select("COALESCE(SUM(session_cost), 0)").
			Scan(&computed).Error
		if err != nil {
			return nil, err
		}

		computed = utils.Round2(computed)
		if computed != utils.Round2(prof.AccruedRevenue) {
			drifts = append(drifts, BalanceDrift{
				ProfessionalID: prof.ID,
				Name:           prof.Name,
				Stored:         prof.AccruedRevenue,
				Computed:       computed,
			})
		}
	}
	return drifts, nil
}

// StartBalanceAuditor runs AuditBalances nightly and logs any drift.
func StartBalanceAuditor(db *gorm.DB) *cron.Cron {
	c := cron.New()

	// Run daily at 2:30 AM, outside clinic hours
	c.AddFunc("30 2 * * *", func() {
		drifts, err := AuditBalances(db)
		if err != nil {
			log.Printf("[AUDIT] balance audit failed: %v", err)
			return
		}
		if len(drifts) == 0 {
			log.Println("[AUDIT] balance audit clean")
			return
		}
		for _, d := range drifts {
			log.Printf("[AUDIT] balance drift for %s (%s): stored=%.2f computed=%.2f",
				d.Name, d.ProfessionalID, d.Stored, d.Computed)
		}
	})

	c.Start()
	return c
}
