package suppliers

// CreateSupplierPayload represents the request body for creating a supplier.
type CreateSupplierPayload struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Contact string  `json:"contact" validate:"required,msisdn"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address string  `json:"address" validate:"max=300"`
}

// UpdateSupplierPayload represents the request body for updating a supplier.
type UpdateSupplierPayload struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Contact *string `json:"contact" validate:"omitempty,msisdn"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,max=300"`
}

// ListSuppliersQuery represents the query parameters for listing suppliers.
type ListSuppliersQuery struct {
	Limit  int `query:"limit" default:"50"`
	Offset int `query:"offset" default:"0"`
}
