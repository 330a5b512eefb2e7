package sales

import (
	"net/http"
	"strconv"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	saleService     *Service
	settingsService *settings.Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateSalePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	opts := CreateSaleOptions{
		UserID:    userID,
		PatientID: params.PatientID,
	}
	for _, item := range params.Items {
		opts.Items = append(opts.Items, SaleItemOptions(item))
	}

	sale, err := h.saleService.Create(ctx, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sale)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Sale")
	}

	sale, err := h.saleService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sale)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSalesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	sales, total, err := h.saleService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Sales []*models.Sale `json:"sales"`
		Total int            `json:"total"`
	}{sales, total}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) receipt(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Sale")
	}

	receipt, err := h.saleService.BuildReceipt(ctx, h.settingsService, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, receipt)
}
