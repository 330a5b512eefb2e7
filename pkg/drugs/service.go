package drugs

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles drug inventory operations.
type Service struct {
	db       *bun.DB
	recorder *sync.Recorder
}

// NewService creates a new drugs service.
func NewService(db *bun.DB, recorder *sync.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// CreateDrugOptions contains options for creating a drug.
type CreateDrugOptions struct {
	Name       string
	Category   string
	Quantity   int
	UnitPrice  float64
	ExpiryDate *time.Time
	SupplierID *int
}

// Create creates a new drug and queues it for upload.
func (s *Service) Create(ctx context.Context, opts CreateDrugOptions) (*models.Drug, error) {
	if opts.SupplierID != nil {
		exists, err := s.db.NewSelect().
			Model((*models.Supplier)(nil)).
			Where("supplier_id = ?", *opts.SupplierID).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !exists {
			return nil, errcodes.ValidationError("Invalid supplier ID")
		}
	}

	now := time.Now().UTC()
	drug := &models.Drug{
		Name:       opts.Name,
		Category:   opts.Category,
		Quantity:   opts.Quantity,
		UnitPrice:  opts.UnitPrice,
		ExpiryDate: opts.ExpiryDate,
		SupplierID: opts.SupplierID,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(drug).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "drugs", models.SyncOpInsert, int64(drug.ID), drug)
	})
	if err != nil {
		return nil, err
	}

	return drug, nil
}

// Retrieve gets a drug by ID with its supplier.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Drug, error) {
	drug := &models.Drug{}
	err := s.db.NewSelect().
		Model(drug).
		Relation("Supplier").
		Where("d.drug_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Drug")
	}
	return drug, nil
}

// ListOptions contains options for listing drugs.
type ListOptions struct {
	Search   string
	Category string
	Limit    int
	Offset   int
}

// List returns a paginated list of drugs.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Drug, int, error) {
	drugs := []*models.Drug{}

	query := s.db.NewSelect().
		Model(&drugs).
		Relation("Supplier").
		Order("d.name ASC")

	if opts.Search != "" {
		query = query.Where("d.name LIKE ?", "%"+opts.Search+"%")
	}
	if opts.Category != "" {
		query = query.Where("d.category = ?", opts.Category)
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

	return drugs, total, nil
}

// UpdateOptions contains options for updating a drug.
type UpdateOptions struct {
	Columns []string
}

// Update persists the given columns and queues the new row state for upload.
func (s *Service) Update(ctx context.Context, drug *models.Drug, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	drug.UpdatedAt = time.Now().UTC()
	drug.IsSynced = false
	drug.SyncStatus = models.SyncStatusPending
	columns := append(opts.Columns, "updated_at", "is_synced", "sync_status")

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(drug).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "drugs", models.SyncOpUpdate, int64(drug.ID), drug)
	})
}

// AdjustStock applies a signed quantity delta inside the given transaction
// and queues the updated row. Sales dispensing calls this with a negative
// delta; restocking with a positive one. The delta must not take the quantity
// below zero.
func (s *Service) AdjustStock(ctx context.Context, tx bun.Tx, drugID, delta int) error {
	drug := &models.Drug{}
	err := tx.NewSelect().
		Model(drug).
		Where("d.drug_id = ?", drugID).
		Scan(ctx)
	if err != nil {
		return errcodes.NotFound("Drug")
	}

	if drug.Quantity+delta < 0 {
		return errcodes.ValidationError("Insufficient stock for " + drug.Name)
	}

	drug.Quantity += delta
	drug.UpdatedAt = time.Now().UTC()
	drug.IsSynced = false
	drug.SyncStatus = models.SyncStatusPending

	_, err = tx.NewUpdate().
		Model(drug).
		Column("quantity", "updated_at", "is_synced", "sync_status").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return s.recorder.Record(ctx, tx, "drugs", models.SyncOpUpdate, int64(drug.ID), drug)
}

// Delete removes a drug and queues the deletion for upload. Drugs referenced
// by sale items cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int) error {
	if _, err := s.Retrieve(ctx, id); err != nil {
		return err
	}

	inUse, err := s.db.NewSelect().
		Model((*models.SaleItem)(nil)).
		Where("drug_id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if inUse {
		return errcodes.ConstraintError("Drug is still referenced by sales")
	}

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*models.Drug)(nil)).
			Where("drug_id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "drugs", models.SyncOpDelete, int64(id), nil)
	})
}
