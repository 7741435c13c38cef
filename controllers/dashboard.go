// controllers/dashboard.go
package controllers

import (
	"net/http"
	"time"

	"clinicpro-backend/config"
	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalPatients      int64                `json:"totalPatients"`
	TodayAppointments  int64                `json:"todayAppointments"`
	MonthCollected     float64              `json:"monthCollected"`
	TotalOwed          float64              `json:"totalOwed"`
	TodaySchedule      []models.Appointment `json:"todaySchedule"`
	PendingSettlements []PendingSettlement  `json:"pendingSettlements"`
}

type PendingSettlement struct {
	Name       string  `json:"name"`
	OwedAmount float64 `json:"owedAmount"`
}

func GetDashboardOverview(c *gin.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")

	// Total active patients
	var totalPatients int64
	config.DB.Model(&models.Patient{}).Where("is_active = ?", true).Count(&totalPatients)

	// Today's appointments
	var todayAppointments int64
	config.DB.Model(&models.Appointment{}).
		Where("date = ? AND is_active = ? AND status <> ?", today, true, models.StatusCancelled).
		Count(&todayAppointments)

	// Collected this month: session payments plus no-show fees
	var monthCollected float64
	config.DB.Model(&models.Appointment{}).
		Where("date >= ? AND is_active = ? AND status = ?", firstOfMonth, true, models.StatusCompleted).
		Select("COALESCE(SUM(COALESCE(payment_amount, 0) + COALESCE(no_show_payment_amount, 0)), 0)").
		Scan(&monthCollected)

	// Outstanding commission across all professionals
	var totalOwed float64
	config.DB.Model(&models.User{}).
		Where("role = ?", models.RoleProfessional).
		Select("COALESCE(SUM(owed_amount), 0)").
		Scan(&totalOwed)

	// Today's schedule, in calendar order
	var todaySchedule []models.Appointment
	config.DB.Where("date = ? AND is_active = ? AND status = ?", today, true, models.StatusScheduled).
		Order("start_time").
		Limit(20).
		Find(&todaySchedule)

	// Professionals with an open balance, largest first
	var pendingSettlements []PendingSettlement
	config.DB.Model(&models.User{}).
		Where("role = ? AND owed_amount > 0", models.RoleProfessional).
		Order("owed_amount DESC").
		Limit(10).
		Select("name, owed_amount").
		Scan(&pendingSettlements)

	overview := DashboardOverview{
		TotalPatients:      totalPatients,
		TodayAppointments:  todayAppointments,
		MonthCollected:     utils.Round2(monthCollected),
		TotalOwed:          utils.Round2(totalOwed),
		TodaySchedule:      todaySchedule,
		PendingSettlements: pendingSettlements,
	}

	c.JSON(http.StatusOK, overview)
}
