package sync

type UpdateSyncSettingsPayload struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ListQueueParams struct {
	Status *string `query:"status" validate:"omitempty,oneof=pending synced failed"`
	Limit  *int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset *int    `query:"offset" validate:"omitempty,min=0"`
}
