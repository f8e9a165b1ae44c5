package api

import (
	authUsecase "github.com/sampurn31/my-med/internal/auth/usecase"
	doseUsecase "github.com/sampurn31/my-med/internal/doselog/usecase"
	familyUsecase "github.com/sampurn31/my-med/internal/family/usecase"
	medUsecase "github.com/sampurn31/my-med/internal/medication/usecase"
	schedUsecase "github.com/sampurn31/my-med/internal/schedule/usecase"
	"github.com/sampurn31/my-med/pkg/config"

	"github.com/gin-gonic/gin"
)

// Handler owns the gin engine and the use cases the routes need.
type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	medUsecase    medUsecase.MedicationUsecase
	schedUsecase  schedUsecase.ScheduleUsecase
	doseUsecase   doseUsecase.DoseLogUsecase
	familyUsecase familyUsecase.FamilyUsecase
	config        *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, medUc medUsecase.MedicationUsecase, schedUc schedUsecase.ScheduleUsecase, doseUc doseUsecase.DoseLogUsecase, familyUc familyUsecase.FamilyUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:   authUc,
		medUsecase:    medUc,
		schedUsecase:  schedUc,
		doseUsecase:   doseUc,
		familyUsecase: familyUc,
		config:        cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.medUsecase, h.schedUsecase, h.doseUsecase, h.familyUsecase, h.config)

	return r.Run(addr)
}
