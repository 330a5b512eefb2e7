package settings

import (
	"net/http"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	configs, err := h.settingsService.List(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	response := map[string]string{}
	for _, cfg := range configs {
		response[cfg.Key] = cfg.Value
	}

	return errors.WithStack(c.JSON(http.StatusOK, response))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateSettingsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.ClinicName != nil {
		if err := h.settingsService.Set(ctx, models.ConfigKeyClinicName, *params.ClinicName); err != nil {
			return errors.WithStack(err)
		}
	}
	if params.ReceiptFooter != nil {
		if err := h.settingsService.Set(ctx, models.ConfigKeyReceiptFooter, *params.ReceiptFooter); err != nil {
			return errors.WithStack(err)
		}
	}

	return h.list(c)
}
