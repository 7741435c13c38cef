package routes

import (
	"clinicpro-backend/config"
	"clinicpro-backend/controllers"
	"clinicpro-backend/models"
	"clinicpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Patient routes
		patients := api.Group("/patients")
		{
			patients.POST("", controllers.CreatePatient)
			patients.GET("", controllers.GetPatients)
			patients.GET("/:id", controllers.GetPatient)
			patients.PUT("/:id", controllers.UpdatePatient)
			patients.DELETE("/:id", controllers.DeletePatient)
		}

		// Appointment routes
		appointments := api.Group("/appointments")
		{
			appointments.POST("", controllers.CreateAppointment)
			appointments.GET("", controllers.GetAppointments)
			appointments.GET("/available-slots", controllers.GetAvailableSlots)
			appointments.GET("/:id", controllers.GetAppointment)
			appointments.PUT("/:id", controllers.UpdateAppointment)
			appointments.DELETE("/:id", controllers.DeleteAppointment)
		}

		// Professional routes; balance and settlement writes are admin-only
		professionals := api.Group("/professionals")
		{
			professionals.GET("", controllers.GetProfessionals)
			professionals.GET("/:id/balance", controllers.GetBalance)
			professionals.GET("/:id/settlements", controllers.GetSettlements)

			admin := professionals.Group("", utils.RequireRole(models.RoleAdmin))
			{
				admin.POST("", controllers.AddProfessional)
				admin.PUT("/:id", controllers.UpdateProfessional)
				admin.DELETE("/:id", controllers.DeleteProfessional)
				admin.POST("/:id/settlements", controllers.SettleBalance)
			}
		}

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports/commissions", reportController.GetCommissionReport)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
