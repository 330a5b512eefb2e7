package sync

import (
	"context"
	"sort"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// pushEngine replays pending queue entries against the remote store in
// dependency order. Entries are processed independently: one failure never
// aborts the pass, and a crash mid-pass leaves unprocessed entries pending
// for the next run (at-least-once delivery).
type pushEngine struct {
	db     *bun.DB
	remote Store
	log    logger.Logger
}

// EntryError describes one failed queue entry in a run report.
type EntryError struct {
	QueueID  int64  `json:"queue_id"`
	Table    string `json:"table_name"`
	RecordID int64  `json:"record_id"`
	Message  string `json:"message"`
}

// PushReport summarizes one push pass.
type PushReport struct {
	Attempted     int          `json:"attempted"`
	Synced        int          `json:"synced"`
	Failed        int          `json:"failed"`
	RepairedUsers []int64      `json:"repaired_users,omitempty"`
	Errors        []EntryError `json:"errors,omitempty"`
}

func (e *pushEngine) push(ctx context.Context) (*PushReport, error) {
	entries := []*models.SyncQueueEntry{}
	err := e.db.NewSelect().
		Model(&entries).
		Where("status = ?", models.SyncQueueStatusPending).
		Order("created_at ASC", "queue_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Stable sort keeps creation order within a table while pushing
	// dependency parents (users, patients, ...) before children (sale_items).
	sort.SliceStable(entries, func(i, j int) bool {
		return orderIndex(entries[i].TableName) < orderIndex(entries[j].TableName)
	})

	report := &PushReport{Attempted: len(entries)}
	resyncUsers := map[int64]struct{}{}

	for _, entry := range entries {
		err := e.pushEntry(ctx, entry)
		if err == nil {
			report.Synced++
			continue
		}

		report.Failed++
		report.Errors = append(report.Errors, EntryError{
			QueueID:  entry.ID,
			Table:    entry.TableName,
			RecordID: entry.RecordID,
			Message:  err.Error(),
		})
		e.collectUserRepairs(ctx, entry, err, resyncUsers)
	}

	e.repairUsers(ctx, resyncUsers, report)

	return report, nil
}

// pushEntry normalizes and transmits one queue entry, then records the
// outcome on both the entry and the domain row. The returned error reflects
// why the entry failed; the entry itself is already marked.
func (e *pushEngine) pushEntry(ctx context.Context, entry *models.SyncQueueEntry) error {
	table, ok := tableByName(entry.TableName)
	if !ok {
		err := errors.Errorf("unknown table %q", entry.TableName)
		e.markEntryFailed(ctx, entry, err)
		return err
	}

	var remoteErr error
	switch entry.Operation {
	case models.SyncOpDelete:
		remoteErr = e.remote.Delete(ctx, table, entry.RecordID)
	case models.SyncOpInsert, models.SyncOpUpdate:
		row := Row{}
		if err := json.Unmarshal(entry.Data, &row); err != nil {
			err = errors.Wrap(err, "corrupt snapshot")
			e.markEntryFailed(ctx, entry, err)
			return err
		}

		if table.Name == "patients" {
			// Bad data never leaves the device.
			if err := validatePatientForPush(row); err != nil {
				e.markEntryFailed(ctx, entry, err)
				return err
			}
		}

		row, err := normalizeRow(table, row)
		if err != nil {
			e.markEntryFailed(ctx, entry, err)
			return err
		}

		if entry.Operation == models.SyncOpInsert {
			remoteErr = e.remote.Insert(ctx, table, row)
		} else {
			remoteErr = e.remote.Update(ctx, table, entry.RecordID, row)
		}
	default:
		remoteErr = errors.Errorf("unknown operation %q", entry.Operation)
	}

	if remoteErr != nil {
		e.markEntryFailed(ctx, entry, remoteErr)
		return remoteErr
	}

	if entry.Operation != models.SyncOpDelete {
		e.markRowSynced(ctx, table, entry.RecordID)
	}
	e.markEntry(ctx, entry, models.SyncQueueStatusSynced, nil)

	return nil
}

// collectUserRepairs inspects a foreign-key failure and schedules the missing
// user for a targeted upsert. A failure naming sale_id is resolved to the
// sale's owning user, since sales are keyed to the cashier who made them.
func (e *pushEngine) collectUserRepairs(ctx context.Context, entry *models.SyncQueueEntry, err error, resync map[int64]struct{}) {
	if !IsForeignKeyViolation(err) {
		return
	}

	row := Row{}
	if len(entry.Data) > 0 {
		if err := json.Unmarshal(entry.Data, &row); err != nil {
			return
		}
	}

	if violationMentions(err, "user_id") {
		if id, ok := asInt64(row["user_id"]); ok {
			resync[id] = struct{}{}
		}
	}
	if violationMentions(err, "sale_id") {
		saleID, ok := asInt64(row["sale_id"])
		if !ok {
			return
		}
		sale := &models.Sale{}
		selectErr := e.db.NewSelect().
			Model(sale).
			Column("user_id").
			Where("sale_id = ?", saleID).
			Scan(ctx)
		if selectErr != nil {
			e.log.Warn("cannot resolve owning user for failed sale entry", logger.Data{"sale_id": saleID, "error": selectErr.Error()})
			return
		}
		resync[int64(sale.UserID)] = struct{}{}
	}
}

// repairUsers upserts the full current row of every user collected during the
// main pass, so the retried child rows can land on the next run.
func (e *pushEngine) repairUsers(ctx context.Context, resync map[int64]struct{}, report *PushReport) {
	if len(resync) == 0 {
		return
	}

	usersTable, _ := tableByName("users")

	ids := make([]int64, 0, len(resync))
	for id := range resync {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		user := &models.User{}
		err := e.db.NewSelect().
			Model(user).
			Where("user_id = ?", id).
			Scan(ctx)
		if err != nil {
			e.log.Warn("dependency repair: user not found locally", logger.Data{"user_id": id})
			continue
		}

		row, err := modelToRow(user)
		if err == nil {
			row, err = normalizeRow(usersTable, row)
		}
		if err == nil {
			err = e.remote.Upsert(ctx, usersTable, row)
		}
		if err != nil {
			e.log.Warn("dependency repair failed", logger.Data{"user_id": id, "error": err.Error()})
			continue
		}

		e.markRowSynced(ctx, usersTable, id)
		report.RepairedUsers = append(report.RepairedUsers, id)
	}
}

func (e *pushEngine) markEntryFailed(ctx context.Context, entry *models.SyncQueueEntry, err error) {
	msg := err.Error()
	e.markEntry(ctx, entry, models.SyncQueueStatusFailed, &msg)
}

func (e *pushEngine) markEntry(ctx context.Context, entry *models.SyncQueueEntry, status string, errMsg *string) {
	entry.Status = status
	entry.Error = errMsg
	_, err := e.db.NewUpdate().
		Model(entry).
		Column("status", "error").
		WherePK().
		Exec(ctx)
	if err != nil {
		e.log.Err(err).Error("failed to update sync queue entry status")
	}
}

func (e *pushEngine) markRowSynced(ctx context.Context, table Table, id int64) {
	_, err := e.db.NewUpdate().
		Table(table.Name).
		Set("is_synced = ?", true).
		Set("sync_status = ?", models.SyncStatusSynced).
		Where("? = ?", bun.Ident(table.PrimaryKey), id).
		Exec(ctx)
	if err != nil {
		e.log.Err(err).Error("failed to mark domain row synced")
	}
}

// modelToRow round-trips a bun model through JSON to get its wire column map.
func modelToRow(model interface{}) (Row, error) {
	encoded, err := json.Marshal(model)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	row := Row{}
	if err := json.Unmarshal(encoded, &row); err != nil {
		return nil, errors.WithStack(err)
	}
	return row, nil
}
