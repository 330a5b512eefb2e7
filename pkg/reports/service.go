package reports

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service builds read-only reports off the local store. Reports always work
// offline since they never touch the remote replica.
type Service struct {
	db *bun.DB
}

// NewService creates a new reports service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// SalesSummary aggregates sales over a date range.
type SalesSummary struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	SaleCount    int            `json:"sale_count"`
	TotalRevenue float64        `json:"total_revenue"`
	TopDrugs     []DrugSalesRow `json:"top_drugs"`
}

// DrugSalesRow is one drug's aggregate in a sales summary.
type DrugSalesRow struct {
	DrugID       int     `bun:"drug_id" json:"drug_id"`
	Name         string  `bun:"name" json:"name"`
	QuantitySold int     `bun:"quantity_sold" json:"quantity_sold"`
	Revenue      float64 `bun:"revenue" json:"revenue"`
}

// Sales builds a sales summary for [from, to).
func (s *Service) Sales(ctx context.Context, from, to time.Time) (*SalesSummary, error) {
	summary := &SalesSummary{From: from, To: to}

	err := s.db.NewSelect().
		Model((*models.Sale)(nil)).
		ColumnExpr("COUNT(*)").
		Where("sale_date >= ?", from.UTC()).
		Where("sale_date < ?", to.UTC()).
		Scan(ctx, &summary.SaleCount)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	err = s.db.NewSelect().
		Model((*models.Sale)(nil)).
		ColumnExpr("COALESCE(SUM(total_amount), 0)").
		Where("sale_date >= ?", from.UTC()).
		Where("sale_date < ?", to.UTC()).
		Scan(ctx, &summary.TotalRevenue)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	summary.TopDrugs = []DrugSalesRow{}
	err = s.db.NewSelect().
		Model((*models.SaleItem)(nil)).
		ColumnExpr("si.drug_id AS drug_id").
		ColumnExpr("d.name AS name").
		ColumnExpr("SUM(si.quantity) AS quantity_sold").
		ColumnExpr("SUM(si.quantity * si.unit_price) AS revenue").
		Join("JOIN drugs AS d ON d.drug_id = si.drug_id").
		Join("JOIN sales AS sl ON sl.sale_id = si.sale_id").
		Where("sl.sale_date >= ?", from.UTC()).
		Where("sl.sale_date < ?", to.UTC()).
		GroupExpr("si.drug_id, d.name").
		OrderExpr("revenue DESC").
		Limit(10).
		Scan(ctx, &summary.TopDrugs)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return summary, nil
}

// LowStock returns drugs at or below the given quantity threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*models.Drug, error) {
	drugs := []*models.Drug{}
	err := s.db.NewSelect().
		Model(&drugs).
		Relation("Supplier").
		Where("d.quantity <= ?", threshold).
		Order("d.quantity ASC", "d.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return drugs, nil
}

// Expiring returns drugs expiring within the given number of days, soonest
// first. Drugs without an expiry date are excluded.
func (s *Service) Expiring(ctx context.Context, withinDays int) ([]*models.Drug, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, withinDays)

	drugs := []*models.Drug{}
	err := s.db.NewSelect().
		Model(&drugs).
		Relation("Supplier").
		Where("d.expiry_date IS NOT NULL").
		Where("d.expiry_date <= ?", cutoff).
		Order("d.expiry_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return drugs, nil
}
