package sync

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutesWithGroup registers sync routes on a pre-configured group.
// The service is shared with the background worker, so it is built by the
// caller rather than here.
func RegisterRoutesWithGroup(g *echo.Group, syncService *Service) {
	h := &handler{
		syncService: syncService,
	}

	g.GET("/status", h.status)
	g.POST("/run", h.run)
	g.PUT("/settings", h.updateSettings)
	g.GET("/queue", h.listQueue)
}
