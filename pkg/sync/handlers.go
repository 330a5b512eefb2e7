package sync

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	syncService *Service
}

func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	status, err := h.syncService.GetStatus(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, status))
}

func (h *handler) run(c echo.Context) error {
	ctx := c.Request().Context()

	report, err := h.syncService.SyncNow(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, report))
}

func (h *handler) updateSettings(c echo.Context) error {
	ctx := c.Request().Context()

	params := UpdateSyncSettingsPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.syncService.SetEnabled(ctx, *params.Enabled); err != nil {
		return errors.WithStack(err)
	}

	return h.status(c)
}

func (h *handler) listQueue(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListQueueParams{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	opts := ListQueueOptions{}
	if params.Status != nil {
		opts.Status = *params.Status
	}
	if params.Limit != nil {
		opts.Limit = *params.Limit
	}
	if params.Offset != nil {
		opts.Offset = *params.Offset
	}

	entries, err := h.syncService.ListQueue(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, map[string]interface{}{"entries": entries}))
}
