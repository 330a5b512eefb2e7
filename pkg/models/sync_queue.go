package models

import (
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// SyncQueueEntry is one queued local mutation awaiting replay against the
// remote store. Exactly one entry is created per domain write while sync is
// enabled. Data is a full post-mutation row snapshot, not a diff; DELETE
// entries carry no data. Entries are never deleted, so the table doubles as a
// mutation ledger for the audit screen.
type SyncQueueEntry struct {
	bun.BaseModel `bun:"table:sync_queue,alias:sq"`

	ID        int64           `bun:"queue_id,pk,nullzero" json:"queue_id"`
	TableName string          `bun:",nullzero" json:"table_name"`
	Operation string          `bun:",nullzero" json:"operation"`
	RecordID  int64           `json:"record_id"`
	Data      json.RawMessage `bun:",nullzero" json:"data,omitempty"`
	Status    string          `bun:",nullzero,default:'pending'" json:"status"`
	Error     *string         `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
