package suppliers

import (
	"net/http"
	"strconv"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	supplierService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreateSupplierPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	supplier, err := h.supplierService.Create(ctx, CreateSupplierOptions(params))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, supplier)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Supplier")
	}

	supplier, err := h.supplierService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, supplier)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSuppliersQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	suppliers, total, err := h.supplierService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Suppliers []*models.Supplier `json:"suppliers"`
		Total     int                `json:"total"`
	}{suppliers, total}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Supplier")
	}

	params := UpdateSupplierPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	supplier, err := h.supplierService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.Name != nil && *params.Name != supplier.Name {
		supplier.Name = *params.Name
		opts.Columns = append(opts.Columns, "name")
	}
	if params.Contact != nil && *params.Contact != supplier.Contact {
		supplier.Contact = *params.Contact
		opts.Columns = append(opts.Columns, "contact")
	}
	if params.Email != nil {
		supplier.Email = params.Email
		opts.Columns = append(opts.Columns, "email")
	}
	if params.Address != nil && *params.Address != supplier.Address {
		supplier.Address = *params.Address
		opts.Columns = append(opts.Columns, "address")
	}

	err = h.supplierService.Update(ctx, supplier, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, supplier)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Supplier")
	}

	err = h.supplierService.Delete(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Supplier deleted successfully"})
}
