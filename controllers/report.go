// controllers/report.go
package controllers

import (
	"net/http"
	"time"

	"clinicpro-backend/config"
	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController handles all reporting functions
type ReportController struct{}

// CommissionReport summarizes billable activity and commission per professional
type CommissionReport struct {
	MonthRevenue      float64               `json:"monthRevenue"`
	MonthGrowth       float64               `json:"monthGrowth"`
	Professionals     []ProfessionalSummary `json:"professionals"`
	SettlementsPaid   float64               `json:"settlementsPaid"`
	TotalOutstanding  float64               `json:"totalOutstanding"`
	CompletedSessions int64                 `json:"completedSessions"`
	NoShowSessions    int64                 `json:"noShowSessions"`
}

type ProfessionalSummary struct {
	Name           string  `json:"name"`
	CommissionRate int     `json:"commissionRate"`
	AccruedRevenue float64 `json:"accruedRevenue"`
	OwedAmount     float64 `json:"owedAmount"`
}

// GetCommissionReport returns the commission and revenue summary
func (rc *ReportController) GetCommissionReport(c *gin.Context) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	firstOfLastMonth := firstOfMonth.AddDate(0, -1, 0)

	monthRevenue, err := rc.getBillableRevenue(firstOfMonth.Format("2006-01-02"), "")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getBillableRevenue(
		firstOfLastMonth.Format("2006-01-02"),
		firstOfMonth.Format("2006-01-02"))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	monthGrowth := 0.0
	if lastMonthRevenue > 0 {
		monthGrowth = utils.Round2((monthRevenue - lastMonthRevenue) / lastMonthRevenue * 100)
	}

	var professionals []ProfessionalSummary
	if err := config.DB.Model(&models.User{}).
		Where("role = ?", models.RoleProfessional).
		Order("accrued_revenue DESC").
		Select("name, commission_rate, accrued_revenue, owed_amount").
		Scan(&professionals).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get professional summaries")
		return
	}

	var settlementsPaid float64
	config.DB.Model(&models.SettlementPayment{}).
		Where("date >= ?", firstOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&settlementsPaid)

	var totalOutstanding float64
	config.DB.Model(&models.User{}).
		Where("role = ?", models.RoleProfessional).
		Select("COALESCE(SUM(owed_amount), 0)").
		Scan(&totalOutstanding)

	var completedSessions, noShowSessions int64
	config.DB.Model(&models.Appointment{}).
		Where("date >= ? AND is_active = ? AND status = ? AND attended = ?",
			firstOfMonth.Format("2006-01-02"), true, models.StatusCompleted, true).
		Count(&completedSessions)
	config.DB.Model(&models.Appointment{}).
		Where("date >= ? AND is_active = ? AND status = ? AND attended = ?",
			firstOfMonth.Format("2006-01-02"), true, models.StatusCompleted, false).
		Count(&noShowSessions)

	report := CommissionReport{
		MonthRevenue:      utils.Round2(monthRevenue),
		MonthGrowth:       monthGrowth,
		Professionals:     professionals,
		SettlementsPaid:   utils.Round2(settlementsPaid),
		TotalOutstanding:  utils.Round2(totalOutstanding),
		CompletedSessions: completedSessions,
		NoShowSessions:    noShowSessions,
	}

	c.JSON(http.StatusOK, report)
}

// getBillableRevenue sums session costs over billable appointments in
// [from, to); an empty to means no upper bound
func (rc *ReportController) getBillableRevenue(from, to string) (float64, error) {
	query := config.DB.Model(&models.Appointment{}).
		Where("date >= ? AND is_active = ? AND status = ? AND attended = ?",
			from, true, models.StatusCompleted, true)
	if to != "" {
		query = query.Where("date < ?", to)
	}

	var revenue float64
	err := query.Select("COALESCE(SUM(session_cost), 0)").Scan(&revenue).Error
	return revenue, err
}
