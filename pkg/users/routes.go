package users

import (
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, recorder *sync.Recorder, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db, recorder)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("", h.list, authMiddleware.RequireAdmin)
	users.GET("/:id", h.retrieve, authMiddleware.RequireAdmin)
	users.POST("", h.create, authMiddleware.RequireAdmin)
	users.POST("/:id", h.update, authMiddleware.RequireAdmin)
	users.DELETE("/:id", h.deactivate, authMiddleware.RequireAdmin)

	// Authenticated users can reset their own password; resetting another
	// user's password requires the admin role, checked in the handler.
	users.POST("/:id/reset-password", h.resetPassword)

	return userService
}
