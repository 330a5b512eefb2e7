package reports

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all report routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	reportService := NewService(db)

	h := &handler{
		reportService: reportService,
	}

	reports := e.Group("/reports")
	reports.Use(authMiddleware.Authenticate)

	reports.GET("/sales", h.sales)
	reports.GET("/low-stock", h.lowStock)
	reports.GET("/expiring", h.expiring)

	return reportService
}
