package drugs

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all drug routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, authMiddleware *auth.Middleware) *Service {
	drugService := NewService(db, recorder)

	h := &handler{
		drugService: drugService,
	}

	drugs := e.Group("/drugs")
	drugs.Use(authMiddleware.Authenticate)

	drugs.GET("", h.list)
	drugs.GET("/:id", h.retrieve)
	drugs.POST("", h.create)
	drugs.POST("/:id", h.update)
	drugs.DELETE("/:id", h.delete, authMiddleware.RequireAdmin)

	return drugService
}
