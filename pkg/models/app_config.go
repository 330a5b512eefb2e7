package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Well-known app_config keys.
const (
	ConfigKeySyncEnabled   = "sync_enabled"
	ConfigKeyClinicName    = "clinic_name"
	ConfigKeyReceiptFooter = "receipt_footer"
)

// AppConfig is a key-value settings row. It is local-only and never synced.
type AppConfig struct {
	bun.BaseModel `bun:"table:app_config,alias:ac"`

	Key       string    `bun:",pk" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
