package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Patient struct {
	bun.BaseModel `bun:"table:patients,alias:p"`

	ID        int       `bun:"patient_id,pk,nullzero" json:"patient_id"`
	FirstName string    `bun:",nullzero" json:"first_name"`
	LastName  string    `bun:",nullzero" json:"last_name"`
	Age       int       `json:"age"`
	Gender    string    `bun:",nullzero" json:"gender"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`
}

// FullName is used for receipts and the sync audit description.
func (p *Patient) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
