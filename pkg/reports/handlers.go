package reports

import (
	"net/http"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	reportService *Service
}

func (h *handler) sales(c echo.Context) error {
	ctx := c.Request().Context()

	params := SalesReportQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	// Default to the last 30 days.
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if params.To != nil {
		to = *params.To
	}
	if params.From != nil {
		from = *params.From
	}

	summary, err := h.reportService.Sales(ctx, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *handler) lowStock(c echo.Context) error {
	ctx := c.Request().Context()

	params := LowStockQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	drugs, err := h.reportService.LowStock(ctx, params.Threshold)
	if err != nil {
		return err
	}

	resp := struct {
		Drugs     []*models.Drug `json:"drugs"`
		Threshold int            `json:"threshold"`
	}{drugs, params.Threshold}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) expiring(c echo.Context) error {
	ctx := c.Request().Context()

	params := ExpiringQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	drugs, err := h.reportService.Expiring(ctx, params.WithinDays)
	if err != nil {
		return err
	}

	resp := struct {
		Drugs      []*models.Drug `json:"drugs"`
		WithinDays int            `json:"within_days"`
	}{drugs, params.WithinDays}

	return c.JSON(http.StatusOK, resp)
}
