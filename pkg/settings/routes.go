package settings

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers settings routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		settingsService: NewService(db),
	}

	g.GET("", h.list)
	g.PATCH("", h.update)
}
