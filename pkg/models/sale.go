package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Sale struct {
	bun.BaseModel `bun:"table:sales,alias:sl"`

	ID          int       `bun:"sale_id,pk,nullzero" json:"sale_id"`
	UserID      int       `json:"user_id"`
	PatientID   *int      `json:"patient_id,omitempty"`
	TotalAmount float64   `bun:"total_amount" json:"total_amount"`
	SaleDate    time.Time `json:"sale_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`

	User  *User       `bun:"rel:belongs-to,join:user_id=user_id" json:"user,omitempty"`
	Items []*SaleItem `bun:"rel:has-many,join:sale_id=sale_id" json:"items,omitempty"`
}

type SaleItem struct {
	bun.BaseModel `bun:"table:sale_items,alias:si"`

	ID        int       `bun:"sale_item_id,pk,nullzero" json:"sale_item_id"`
	SaleID    int       `json:"sale_id"`
	DrugID    int       `json:"drug_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `bun:"unit_price" json:"unit_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	IsSynced   bool   `json:"is_synced"`
	SyncStatus string `bun:",nullzero,default:'pending'" json:"sync_status"`

	Drug *Drug `bun:"rel:belongs-to,join:drug_id=drug_id" json:"drug,omitempty"`
}
