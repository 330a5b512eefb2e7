package prescriptions

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles prescription operations.
type Service struct {
	db       *bun.DB
	recorder *sync.Recorder
}

// NewService creates a new prescriptions service.
func NewService(db *bun.DB, recorder *sync.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// CreatePrescriptionOptions contains options for creating a prescription.
type CreatePrescriptionOptions struct {
	PatientID    int
	UserID       int
	Diagnosis    string
	Medication   string
	Dosage       string
	Instructions string
}

// Create creates a new prescription and queues it for upload.
func (s *Service) Create(ctx context.Context, opts CreatePrescriptionOptions) (*models.Prescription, error) {
	exists, err := s.db.NewSelect().
		Model((*models.Patient)(nil)).
		Where("patient_id = ?", opts.PatientID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.ValidationError("Invalid patient ID")
	}

	now := time.Now().UTC()
	prescription := &models.Prescription{
		PatientID:    opts.PatientID,
		UserID:       opts.UserID,
		Diagnosis:    opts.Diagnosis,
		Medication:   opts.Medication,
		Dosage:       opts.Dosage,
		Instructions: opts.Instructions,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   models.SyncStatusPending,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(prescription).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "prescriptions", models.SyncOpInsert, int64(prescription.ID), prescription)
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, prescription.ID)
}

// Retrieve gets a prescription by ID with its patient and prescriber.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Prescription, error) {
	prescription := &models.Prescription{}
	err := s.db.NewSelect().
		Model(prescription).
		Relation("Patient").
		Relation("User").
		Where("pr.prescription_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Prescription")
	}
	return prescription, nil
}

// ListOptions contains options for listing prescriptions.
type ListOptions struct {
	PatientID int
	Limit     int
	Offset    int
}

// List returns a paginated list of prescriptions, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Prescription, int, error) {
	prescriptions := []*models.Prescription{}

	query := s.db.NewSelect().
		Model(&prescriptions).
		Relation("Patient").
		Relation("User").
		Order("pr.created_at DESC")

	if opts.PatientID > 0 {
		query = query.Where("pr.patient_id = ?", opts.PatientID)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return prescriptions, total, nil
}

// UpdateOptions contains options for updating a prescription.
type UpdateOptions struct {
	Columns []string
}

// Update persists the given columns and queues the new row state for upload.
func (s *Service) Update(ctx context.Context, prescription *models.Prescription, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	prescription.UpdatedAt = time.Now().UTC()
	prescription.IsSynced = false
	prescription.SyncStatus = models.SyncStatusPending
	columns := append(opts.Columns, "updated_at", "is_synced", "sync_status")

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(prescription).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "prescriptions", models.SyncOpUpdate, int64(prescription.ID), prescription)
	})
}

// Delete removes a prescription and queues the deletion for upload.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Retrieve(ctx, id); err != nil {
		return err
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Prescription)(nil)).
			Where("prescription_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "prescriptions", models.SyncOpDelete, int64(id), nil)
	})
}
