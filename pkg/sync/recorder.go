package sync

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// Recorder turns successful domain writes into durable sync queue entries.
// Domain services call Record inside the same transaction as the row write,
// so a crash can never separate a mutation from its queue entry.
type Recorder struct {
	settings *settings.Service
}

func NewRecorder(settingsService *settings.Service) *Recorder {
	return &Recorder{settings: settingsService}
}

// Record appends a pending queue entry for one mutation. The sync_enabled
// gate is re-read on every call: enabling sync mid-session starts capturing
// new mutations immediately, but writes made while disabled are not
// retroactively captured. DELETE operations pass a nil snapshot.
func (r *Recorder) Record(ctx context.Context, idb bun.IDB, tableName, operation string, recordID int64, snapshot interface{}) error {
	enabled, err := r.settings.SyncEnabledTx(ctx, idb)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	var data json.RawMessage
	if snapshot != nil {
		data, err = json.Marshal(snapshot)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	entry := &models.SyncQueueEntry{
		TableName: tableName,
		Operation: operation,
		RecordID:  recordID,
		Data:      data,
		Status:    models.SyncQueueStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	_, err = idb.NewInsert().Model(entry).Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}
