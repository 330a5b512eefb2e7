package sales

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/drugs"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles sale operations.
type Service struct {
	db          *bun.DB
	recorder    *sync.Recorder
	drugService *drugs.Service
}

// NewService creates a new sales service.
func NewService(db *bun.DB, recorder *sync.Recorder, drugService *drugs.Service) *Service {
	return &Service{db: db, recorder: recorder, drugService: drugService}
}

// SaleItemOptions is one line of a sale.
type SaleItemOptions struct {
	DrugID   int
	Quantity int
}

// CreateSaleOptions contains options for recording a sale.
type CreateSaleOptions struct {
	UserID    int
	PatientID *int
	Items     []SaleItemOptions
}

// Create records a sale with its items, decrements drug stock, and queues
// every written row for upload. The whole sale is one transaction: either the
// sale, all items, and all stock adjustments land together with their queue
// entries, or none of them do.
func (s *Service) Create(ctx context.Context, opts CreateSaleOptions) (*models.Sale, error) {
	if len(opts.Items) == 0 {
		return nil, errcodes.ValidationError("A sale needs at least one item")
	}

	if opts.PatientID != nil {
		exists, err := s.db.NewSelect().
			Model((*models.Patient)(nil)).
			Where("patient_id = ?", *opts.PatientID).
			Exists(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if !exists {
			return nil, errcodes.ValidationError("Invalid patient ID")
		}
	}

	now := time.Now().UTC()
	sale := &models.Sale{
		UserID:     opts.UserID,
		PatientID:  opts.PatientID,
		SaleDate:   now,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Price the items off the current drug rows before touching stock.
		items := make([]*models.SaleItem, 0, len(opts.Items))
		total := 0.0
		for _, itemOpts := range opts.Items {
			drug := &models.Drug{}
			err := tx.NewSelect().
				Model(drug).
				Where("d.drug_id = ?", itemOpts.DrugID).
				Scan(ctx)
			if err != nil {
				return errcodes.ValidationError("Invalid drug ID")
			}

			items = append(items, &models.SaleItem{
				DrugID:     drug.ID,
				Quantity:   itemOpts.Quantity,
				UnitPrice:  drug.UnitPrice,
				CreatedAt:  now,
				UpdatedAt:  now,
				SyncStatus: models.SyncStatusPending,
			})
			total += drug.UnitPrice * float64(itemOpts.Quantity)
		}
		sale.TotalAmount = total

		if _, err := tx.NewInsert().Model(sale).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		if err := s.recorder.Record(ctx, tx, "sales", models.SyncOpInsert, int64(sale.ID), sale); err != nil {
			return err
		}

		for i, item := range items {
			item.SaleID = sale.ID
			if _, err := tx.NewInsert().Model(item).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
			if err := s.recorder.Record(ctx, tx, "sale_items", models.SyncOpInsert, int64(item.ID), item); err != nil {
				return err
			}
			if err := s.drugService.AdjustStock(ctx, tx, item.DrugID, -opts.Items[i].Quantity); err != nil {
				return err
			}
		}

		sale.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// Retrieve gets a sale by ID with its items and cashier.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.Sale, error) {
	sale := &models.Sale{}
	err := s.db.NewSelect().
		Model(sale).
		Relation("User").
		Relation("Items").
		Relation("Items.Drug").
		Where("sl.sale_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("Sale")
	}
	return sale, nil
}

// ListOptions contains options for listing sales.
type ListOptions struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// List returns a paginated list of sales, newest first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.Sale, int, error) {
	sales := []*models.Sale{}

	query := s.db.NewSelect().
		Model(&sales).
		Relation("User").
		Relation("Items").
		Order("sl.sale_date DESC")

	if opts.From != nil {
		query = query.Where("sl.sale_date >= ?", opts.From.UTC())
	}
	if opts.To != nil {
		query = query.Where("sl.sale_date < ?", opts.To.UTC())
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

	return sales, total, nil
}
