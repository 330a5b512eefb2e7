package patients

// CreatePatientPayload represents the request body for registering a patient.
type CreatePatientPayload struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Age       int    `json:"age" validate:"required,min=1,max=150"`
	Gender    string `json:"gender" validate:"required,oneof=male female other"`
	Contact   string `json:"contact" validate:"required,msisdn"`
	Address   string `json:"address" validate:"max=300"`
}

// UpdatePatientPayload represents the request body for updating a patient.
type UpdatePatientPayload struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Age       *int    `json:"age" validate:"omitempty,min=1,max=150"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female other"`
	Contact   *string `json:"contact" validate:"omitempty,msisdn"`
	Address   *string `json:"address" validate:"omitempty,max=300"`
}

// ListPatientsQuery represents the query parameters for listing patients.
type ListPatientsQuery struct {
	Search string `query:"search"`
	Limit  int    `query:"limit" default:"50"`
	Offset int    `query:"offset" default:"0"`
}
