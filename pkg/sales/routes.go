package sales

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/drugs"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all sale routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, drugService *drugs.Service, settingsService *settings.Service, authMiddleware *auth.Middleware) *Service {
	saleService := NewService(db, recorder, drugService)

	h := &handler{
		saleService:     saleService,
		settingsService: settingsService,
	}

	sales := e.Group("/sales")
	sales.Use(authMiddleware.Authenticate)

	sales.GET("", h.list)
	sales.GET("/:id", h.retrieve)
	sales.GET("/:id/receipt", h.receipt)
	sales.POST("", h.create)

	return saleService
}
