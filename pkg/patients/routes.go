package patients

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all patient routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, authMiddleware *auth.Middleware) *Service {
	patientService := NewService(db, recorder)

	h := &handler{
		patientService: patientService,
	}

	patients := e.Group("/patients")
	patients.Use(authMiddleware.Authenticate)

	patients.GET("", h.list)
	patients.GET("/:id", h.retrieve)
	patients.POST("", h.create)
	patients.POST("/:id", h.update)
	patients.DELETE("/:id", h.delete, authMiddleware.RequireAdmin)

	return patientService
}
