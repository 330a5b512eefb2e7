package prescriptions

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all prescription routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, authMiddleware *auth.Middleware) *Service {
	prescriptionService := NewService(db, recorder)

	h := &handler{
		prescriptionService: prescriptionService,
	}

	prescriptions := e.Group("/prescriptions")
	prescriptions.Use(authMiddleware.Authenticate)

	prescriptions.GET("", h.list)
	prescriptions.GET("/:id", h.retrieve)
	prescriptions.POST("", h.create)
	prescriptions.POST("/:id", h.update)
	prescriptions.DELETE("/:id", h.delete, authMiddleware.RequireAdmin)

	return prescriptionService
}
