package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/binder"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/config"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/drugs"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/patients"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/prescriptions"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/reports"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sales"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/suppliers"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/users"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, syncService *sync.Service, recorder *sync.Recorder, settingsService *settings.Service) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authService := auth.NewService(db, recorder, cfg.JWTSecret)
	auth.RegisterRoutes(e, authService)
	authMiddleware := auth.NewMiddleware(authService)

	users.RegisterRoutes(e, db, recorder, authMiddleware)
	patients.RegisterRoutes(e, db, recorder, authMiddleware)
	suppliers.RegisterRoutes(e, db, recorder, authMiddleware)
	drugService := drugs.RegisterRoutes(e, db, recorder, authMiddleware)
	prescriptions.RegisterRoutes(e, db, recorder, authMiddleware)
	sales.RegisterRoutes(e, db, recorder, drugService, settingsService, authMiddleware)
	reports.RegisterRoutes(e, db, authMiddleware)

	// Sync routes share the orchestrator with the background worker. The
	// sync settings toggle is admin-only.
	syncGroup := e.Group("/sync")
	syncGroup.Use(authMiddleware.Authenticate)
	syncGroup.Use(authMiddleware.RequireAdmin)
	sync.RegisterRoutesWithGroup(syncGroup, syncService)

	settingsGroup := e.Group("/settings")
	settingsGroup.Use(authMiddleware.Authenticate)
	settingsGroup.Use(authMiddleware.RequireAdmin)
	settings.RegisterRoutesWithGroup(settingsGroup, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
