package sales

import "time"

// SaleItemPayload is one requested line item.
type SaleItemPayload struct {
	DrugID   int `json:"drug_id" validate:"required"`
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CreateSalePayload represents the request body for recording a sale.
type CreateSalePayload struct {
	PatientID *int              `json:"patient_id"`
	Items     []SaleItemPayload `json:"items" validate:"required,min=1,dive"`
}

// ListSalesQuery represents the query parameters for listing sales.
type ListSalesQuery struct {
	From   *time.Time `query:"from"`
	To     *time.Time `query:"to"`
	Limit  int        `query:"limit" default:"50"`
	Offset int        `query:"offset" default:"0"`
}
