package suppliers

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles supplier operations.
type Service struct {
	db       *bun.DB
	recorder *sync.Recorder
}

// NewService creates a new suppliers service.
func NewService(db *bun.DB, recorder *sync.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// CreateSupplierOptions contains options for creating a supplier.
type CreateSupplierOptions struct {
	Name    string
	Contact string
	Email   *string
	Address string
}

// Create creates a new supplier and queues it for upload.
func (s *Service) Create(ctx context.Context, opts CreateSupplierOptions) (*models.Supplier, error) {
	now := time.Now().UTC()
	supplier := &models.Supplier{
		Name:       opts.Name,
		Contact:    opts.Contact,
		Email:      opts.Email,
		Address:    opts.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(supplier).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "suppliers", models.SyncOpInsert, int64(supplier.ID), supplier)
	})
	if err != nil {
		return nil, err
	}

	return supplier, nil
}

// Retrieve gets a supplier by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	err := s.db.NewSelect().
		Model(supplier).
		Where("s.supplier_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Supplier")
	}
	return supplier, nil
}

// ListOptions contains options for listing suppliers.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a paginated list of suppliers.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Supplier, int, error) {
	suppliers := []*models.Supplier{}

	query := s.db.NewSelect().
		Model(&suppliers).
		Order("s.name ASC")

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

	return suppliers, total, nil
}

// UpdateOptions contains options for updating a supplier.
type UpdateOptions struct {
	Columns []string
}

// Update persists the given columns and queues the new row state for upload.
func (s *Service) Update(ctx context.Context, supplier *models.Supplier, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	supplier.UpdatedAt = time.Now().UTC()
	supplier.IsSynced = false
	supplier.SyncStatus = models.SyncStatusPending
	columns := append(opts.Columns, "updated_at", "is_synced", "sync_status")

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(supplier).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "suppliers", models.SyncOpUpdate, int64(supplier.ID), supplier)
	})
}

// Delete removes a supplier and queues the deletion for upload. Suppliers
// still referenced by drugs cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Retrieve(ctx, id); err != nil {
		return err
	}

	inUse, err := s.db.NewSelect().
		Model((*models.Drug)(nil)).
		Where("supplier_id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if inUse {
		return errcodes.ConstraintError("Supplier is still referenced by drugs")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Supplier)(nil)).
			Where("supplier_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "suppliers", models.SyncOpDelete, int64(id), nil)
	})
}
