package settings

type UpdateSettingsPayload struct {
	ClinicName    *string `json:"clinic_name,omitempty" validate:"omitempty,max=200"`
	ReceiptFooter *string `json:"receipt_footer,omitempty" validate:"omitempty,max=500"`
}
