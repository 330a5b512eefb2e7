package prescriptions

import (
	"net/http"
	"strconv"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	prescriptionService *Service
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := CreatePrescriptionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	userID, ok := auth.GetUserIDFromContext(c)
	if !ok {
		return errcodes.Unauthorized("Authentication required")
	}

	prescription, err := h.prescriptionService.Create(ctx, CreatePrescriptionOptions{
		PatientID:    params.PatientID,
		UserID:       userID,
		Diagnosis:    params.Diagnosis,
		Medication:   params.Medication,
		Dosage:       params.Dosage,
		Instructions: params.Instructions,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, prescription)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Prescription")
	}

	prescription, err := h.prescriptionService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prescription)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListPrescriptionsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	prescriptions, total, err := h.prescriptionService.List(ctx, ListOptions(params))
	if err != nil {
		return err
	}

	resp := struct {
		Prescriptions []*models.Prescription `json:"prescriptions"`
		Total         int                    `json:"total"`
	}{prescriptions, total}

	return c.JSON(http.StatusOK, resp)
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Prescription")
	}

	params := UpdatePrescriptionPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	prescription, err := h.prescriptionService.Retrieve(ctx, id)
	if err != nil {
		return err
	}

	opts := UpdateOptions{Columns: []string{}}

	if params.Diagnosis != nil && *params.Diagnosis != prescription.Diagnosis {
		prescription.Diagnosis = *params.Diagnosis
		opts.Columns = append(opts.Columns, "diagnosis")
	}
	if params.Medication != nil && *params.Medication != prescription.Medication {
		prescription.Medication = *params.Medication
		opts.Columns = append(opts.Columns, "medication")
	}
	if params.Dosage != nil && *params.Dosage != prescription.Dosage {
		prescription.Dosage = *params.Dosage
		opts.Columns = append(opts.Columns, "dosage")
	}
	if params.Instructions != nil && *params.Instructions != prescription.Instructions {
		prescription.Instructions = *params.Instructions
		opts.Columns = append(opts.Columns, "instructions")
	}

	err = h.prescriptionService.Update(ctx, prescription, opts)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prescription)
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Prescription")
	}

	err = h.prescriptionService.Delete(ctx, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Prescription deleted successfully"})
}
