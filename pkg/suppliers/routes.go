package suppliers

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all supplier routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, authMiddleware *auth.Middleware) *Service {
	supplierService := NewService(db, recorder)

	h := &handler{
		supplierService: supplierService,
	}

	suppliers := e.Group("/suppliers")
	suppliers.Use(authMiddleware.Authenticate)

	suppliers.GET("", h.list)
	suppliers.GET("/:id", h.retrieve)
	suppliers.POST("", h.create)
	suppliers.POST("/:id", h.update)
	suppliers.DELETE("/:id", h.delete, authMiddleware.RequireAdmin)

	return supplierService
}
