package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Drug struct {
	bun.BaseModel `bun:"table:drugs,alias:d"`

	ID         int        `bun:"drug_id,pk,nullzero" json:"drug_id"`
	Name       string     `bun:",nullzero" json:"name"`
	Category   string     `json:"category"`
	Quantity   int        `json:"quantity"`
	UnitPrice  float64    `bun:"unit_price" json:"unit_price"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	SupplierID *int       `json:"supplier_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`

	Supplier *Supplier `bun:"rel:belongs-to,join:supplier_id=supplier_id" json:"supplier,omitempty"`
}
