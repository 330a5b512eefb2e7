package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Supplier struct {
	bun.BaseModel `bun:"table:suppliers,alias:s"`

	ID        int       `bun:"supplier_id,pk,nullzero" json:"supplier_id"`
	Name      string    `bun:",nullzero" json:"name"`
	Contact   string    `json:"contact"`
	Email     *string   `json:"email,omitempty"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`
}
