package patients

import (
	"net/http"
	"strconv"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	patientService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePatientPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	patient, err := h.patientService.Create(ctx, CreatePatientOptions(params))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, patient)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Patient")
	}

	patient, err := h.patientService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, patient)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPatientsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	patients, total, err := h.patientService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Patients []*models.Patient `json:"patients"`
		Total    int               `json:"total"`
	}{patients, total}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Patient")
	}

	params := UpdatePatientPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	patient, err := h.patientService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.FirstName != nil && *params.FirstName != patient.FirstName {
		patient.FirstName = *params.FirstName
		opts.Columns = append(opts.Columns, "first_name")
	}
	if params.LastName != nil && *params.LastName != patient.LastName {
		patient.LastName = *params.LastName
		opts.Columns = append(opts.Columns, "last_name")
	}
	if params.Age != nil && *params.Age != patient.Age {
		patient.Age = *params.Age
		opts.Columns = append(opts.Columns, "age")
	}
	if params.Gender != nil && *params.Gender != patient.Gender {
		patient.Gender = *params.Gender
		opts.Columns = append(opts.Columns, "gender")
	}
	if params.Contact != nil && *params.Contact != patient.Contact {
		patient.Contact = *params.Contact
		opts.Columns = append(opts.Columns, "contact")
	}
	if params.Address != nil && *params.Address != patient.Address {
		patient.Address = *params.Address
		opts.Columns = append(opts.Columns, "address")
	}

	err = h.patientService.Update(ctx, patient, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, patient)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Patient")
	}

	err = h.patientService.Delete(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Patient deleted successfully"})
}
