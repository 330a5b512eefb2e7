package prescriptions

// CreatePrescriptionPayload represents the request body for creating a prescription.
type CreatePrescriptionPayload struct {
	PatientID    int    `json:"patient_id" validate:"required"`
	Diagnosis    string `json:"diagnosis" validate:"max=500"`
	Medication   string `json:"medication" validate:"required,max=300"`
	Dosage       string `json:"dosage" validate:"max=200"`
	Instructions string `json:"instructions" validate:"max=500"`
}

// UpdatePrescriptionPayload represents the request body for updating a prescription.
type UpdatePrescriptionPayload struct {
	Diagnosis    *string `json:"diagnosis" validate:"omitempty,max=500"`
	Medication   *string `json:"medication" validate:"omitempty,max=300"`
	Dosage       *string `json:"dosage" validate:"omitempty,max=200"`
	Instructions *string `json:"instructions" validate:"omitempty,max=500"`
}

// ListPrescriptionsQuery represents the query parameters for listing prescriptions.
type ListPrescriptionsQuery struct {
	PatientID int `query:"patient_id"`
	Limit     int `query:"limit" default:"50"`
	Offset    int `query:"offset" default:"0"`
}
