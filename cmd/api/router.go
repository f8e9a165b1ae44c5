package api

import (
	"net/http"

	authDelivery "github.com/sampurn31/my-med/internal/auth/delivery"
	authUsecase "github.com/sampurn31/my-med/internal/auth/usecase"
	doseDelivery "github.com/sampurn31/my-med/internal/doselog/delivery"
	doseUsecase "github.com/sampurn31/my-med/internal/doselog/usecase"
	familyDelivery "github.com/sampurn31/my-med/internal/family/delivery"
	familyUsecase "github.com/sampurn31/my-med/internal/family/usecase"
	medDelivery "github.com/sampurn31/my-med/internal/medication/delivery"
	medUsecase "github.com/sampurn31/my-med/internal/medication/usecase"
	schedDelivery "github.com/sampurn31/my-med/internal/schedule/delivery"
	schedUsecase "github.com/sampurn31/my-med/internal/schedule/usecase"
	"github.com/sampurn31/my-med/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, medUc medUsecase.MedicationUsecase, schedUc schedUsecase.ScheduleUsecase, doseUc doseUsecase.DoseLogUsecase, familyUc familyUsecase.FamilyUsecase, cfg *config.Config) {
	authHandler := authDelivery.NewAuthHandler(authUc)
	medHandler := medDelivery.NewMedicationHandler(medUc)
	schedHandler := schedDelivery.NewScheduleHandler(schedUc)
	doseHandler := doseDelivery.NewDoseLogHandler(doseUc, cfg.SnoozeDefault)
	familyHandler := familyDelivery.NewFamilyHandler(familyUc)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authDelivery.AuthMiddleware(authUc), authHandler.Me)
			auth.PUT("/me", authDelivery.AuthMiddleware(authUc), authHandler.UpdateProfile)
		}

		// Device token routes (protected)
		devices := api.Group("/devices")
		devices.Use(authDelivery.AuthMiddleware(authUc))
		{
			devices.POST("", authHandler.RegisterDevice)
			devices.DELETE("/:token", authHandler.UnregisterDevice)
		}

		// Medication routes (protected)
		medications := api.Group("/medications")
		medications.Use(authDelivery.AuthMiddleware(authUc))
		{
			medications.POST("", medHandler.Create)
			medications.GET("", medHandler.List)
			medications.GET("/:id", medHandler.Get)
			medications.PUT("/:id", medHandler.Update)
			medications.PATCH("/:id/pills", medHandler.UpdatePills)
			medications.DELETE("/:id", medHandler.Delete)
		}

		// Schedule routes (protected)
		schedules := api.Group("/schedules")
		schedules.Use(authDelivery.AuthMiddleware(authUc))
		{
			schedules.POST("", schedHandler.Create)
			schedules.GET("", schedHandler.List)
			schedules.GET("/:id", schedHandler.Get)
			schedules.PUT("/:id", schedHandler.Update)
			schedules.PATCH("/:id/active", schedHandler.SetActive)
			schedules.DELETE("/:id", schedHandler.Delete)
		}

		// Dose event routes (protected)
		doses := api.Group("/doses")
		doses.Use(authDelivery.AuthMiddleware(authUc))
		{
			doses.POST("", doseHandler.Log)
			doses.POST("/sync", doseHandler.Sync)
			doses.GET("/today", doseHandler.Today)
			doses.GET("/upcoming", doseHandler.Upcoming)
			doses.GET("/history", doseHandler.History)
			doses.POST("/:id/take", doseHandler.Take)
			doses.POST("/:id/snooze", doseHandler.Snooze)
			doses.POST("/:id/skip", doseHandler.Skip)
		}

		// Maintenance routes (protected)
		maintenance := api.Group("/maintenance")
		maintenance.Use(authDelivery.AuthMiddleware(authUc))
		{
			maintenance.POST("/deduplicate", doseHandler.Deduplicate)
		}

		// Family routes (protected)
		family := api.Group("/family")
		family.Use(authDelivery.AuthMiddleware(authUc))
		{
			family.POST("/invite", familyHandler.Invite)
			family.GET("", familyHandler.Members)
			family.DELETE("/:memberId", familyHandler.Remove)
		}
	}
}
