package patients

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles patient operations.
type Service struct {
	db       *bun.DB
	recorder *sync.Recorder
}

// NewService creates a new patients service.
func NewService(db *bun.DB, recorder *sync.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// CreatePatientOptions contains options for creating a patient.
type CreatePatientOptions struct {
	FirstName string
	LastName  string
	Age       int
	Gender    string
	Contact   string
	Address   string
}

// Create creates a new patient and queues it for upload.
func (s *Service) Create(ctx context.Context, opts CreatePatientOptions) (*models.Patient, error) {
	now := time.Now().UTC()
	patient := &models.Patient{
		FirstName:  opts.FirstName,
		LastName:   opts.LastName,
		Age:        opts.Age,
		Gender:     opts.Gender,
		Contact:    opts.Contact,
		Address:    opts.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(patient).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "patients", models.SyncOpInsert, int64(patient.ID), patient)
	})
	if err != nil {
		return nil, err
	}

	return patient, nil
}

// Retrieve gets a patient by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Patient, error) {
	patient := &models.Patient{}
	err := s.db.NewSelect().
		Model(patient).
		Where("p.patient_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Patient")
	}
	return patient, nil
}

// ListOptions contains options for listing patients.
type ListOptions struct {
	Search string
	Limit  int
	Offset int
}

// List returns a paginated list of patients, optionally filtered by a name or
// contact search.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Patient, int, error) {
	patients := []*models.Patient{}

	query := s.db.NewSelect().
		Model(&patients).
		Order("p.last_name ASC", "p.first_name ASC")

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("p.first_name LIKE ?", pattern).
				WhereOr("p.last_name LIKE ?", pattern).
				WhereOr("p.contact LIKE ?", pattern)
		})
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

	return patients, total, nil
}

// UpdateOptions contains options for updating a patient.
type UpdateOptions struct {
	Columns []string
}

// Update persists the given columns and queues the new row state for upload.
func (s *Service) Update(ctx context.Context, patient *models.Patient, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	patient.UpdatedAt = time.Now().UTC()
	patient.IsSynced = false
	patient.SyncStatus = models.SyncStatusPending
	columns := append(opts.Columns, "updated_at", "is_synced", "sync_status")

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(patient).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "patients", models.SyncOpUpdate, int64(patient.ID), patient)
	})
}

// Delete removes a patient and queues the deletion for upload. Patients with
// prescriptions or sales on record cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Retrieve(ctx, id); err != nil {
		return err
	}

	inUse, err := s.db.NewSelect().
		Model((*models.Prescription)(nil)).
		Where("patient_id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !inUse {
		inUse, err = s.db.NewSelect().
			Model((*models.Sale)(nil)).
			Where("patient_id = ?", id).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
	}
	if inUse {
		return errcodes.ConstraintError("Patient has prescriptions or sales on record")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Patient)(nil)).
			Where("patient_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "patients", models.SyncOpDelete, int64(id), nil)
	})
}
