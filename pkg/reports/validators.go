package reports

import "time"

// SalesReportQuery represents the query parameters for the sales summary.
type SalesReportQuery struct {
	From *time.Time `query:"from"`
	To   *time.Time `query:"to"`
}

// LowStockQuery represents the query parameters for the low stock report.
type LowStockQuery struct {
	Threshold int `query:"threshold" default:"10" validate:"min=0"`
}

// ExpiringQuery represents the query parameters for the expiring drugs report.
type ExpiringQuery struct {
	WithinDays int `query:"within_days" default:"30" validate:"min=1"`
}
