package drugs

import (
	"net/http"
	"strconv"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	drugService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateDrugPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	drug, err := h.drugService.Create(ctx, CreateDrugOptions(params))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, drug)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Drug")
	}

	drug, err := h.drugService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, drug)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListDrugsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	drugs, total, err := h.drugService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Drugs []*models.Drug `json:"drugs"`
		Total int            `json:"total"`
	}{drugs, total}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Drug")
	}

	params := UpdateDrugPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	drug, err := h.drugService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != drug.Name {
		drug.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Category != nil && *params.Category != drug.Category {
		drug.Category = *params.Category
		opts.Columns = append(opts.Columns, "category")
	}
	if params.Quantity != nil && *params.Quantity != drug.Quantity {
		drug.Quantity = *params.Quantity
		opts.Columns = append(opts.Columns, "quantity")
	}
	if params.UnitPrice != nil && *params.UnitPrice != drug.UnitPrice {
		drug.UnitPrice = *params.UnitPrice
		opts.Columns = append(opts.Columns, "unit_price")
	}
	if params.ExpiryDate != nil {
		drug.ExpiryDate = params.ExpiryDate
		opts.Columns = append(opts.Columns, "expiry_date")
	}
	if params.SupplierID != nil {
		drug.SupplierID = params.SupplierID
		opts.Columns = append(opts.Columns, "supplier_id")
	}

	err = h.drugService.Update(ctx, drug, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, drug)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Drug")
	}

	err = h.drugService.Delete(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Drug deleted successfully"})
}
