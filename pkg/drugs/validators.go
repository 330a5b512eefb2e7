package drugs

import "time"

// CreateDrugPayload represents the request body for creating a drug.
type CreateDrugPayload struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Category   string     `json:"category" validate:"max=100"`
	Quantity   int        `json:"quantity" validate:"min=0"`
	UnitPrice  float64    `json:"unit_price" validate:"min=0"`
	ExpiryDate *time.Time `json:"expiry_date"`
	SupplierID *int       `json:"supplier_id"`
}

// UpdateDrugPayload represents the request body for updating a drug.
type UpdateDrugPayload struct {
	Name       *string    `json:"name" validate:"omitempty,max=200"`
	Category   *string    `json:"category" validate:"omitempty,max=100"`
	Quantity   *int       `json:"quantity" validate:"omitempty,min=0"`
	UnitPrice  *float64   `json:"unit_price" validate:"omitempty,min=0"`
	ExpiryDate *time.Time `json:"expiry_date"`
	SupplierID *int       `json:"supplier_id"`
}

// ListDrugsQuery represents the query parameters for listing drugs.
type ListDrugsQuery struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Limit    int    `query:"limit" default:"50"`
	Offset   int    `query:"offset" default:"0"`
}
