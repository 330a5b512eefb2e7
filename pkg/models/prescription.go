package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Prescription struct {
	bun.BaseModel `bun:"table:prescriptions,alias:pr"`

	ID           int       `bun:"prescription_id,pk,nullzero" json:"prescription_id"`
	PatientID    int       `json:"patient_id"`
	UserID       int       `json:"user_id"`
	Diagnosis    string    `json:"diagnosis"`
	Medication   string    `bun:",nullzero" json:"medication"`
	Dosage       string    `json:"dosage"`
	Instructions string    `json:"instructions"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`

	Patient *Patient `bun:"rel:belongs-to,join:patient_id=patient_id" json:"patient,omitempty"`
	User    *User    `bun:"rel:belongs-to,join:user_id=user_id" json:"user,omitempty"`
}
