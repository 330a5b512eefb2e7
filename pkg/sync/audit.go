package sync

import (
	"context"
	"fmt"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// QueueEntry is a sync queue row enriched with a human-readable summary of
// the snapshot, for the audit view.
type QueueEntry struct {
	*models.SyncQueueEntry
	Summary string `json:"summary"`
}

// ListQueueOptions filters the audit listing. Status of "" means all entries.
type ListQueueOptions struct {
	Status string
	Limit  int
	Offset int
}

// ListQueue returns queue entries newest first for the audit view.
func (s *Service) ListQueue(ctx context.Context, opts ListQueueOptions) ([]*QueueEntry, error) {
	if opts.Limit == 0 {
		opts.Limit = 50
	}

	rows := []*models.SyncQueueEntry{}
	query := s.db.NewSelect().
		Model(&rows).
		Order("queue_id DESC").
		Limit(opts.Limit).
		Offset(opts.Offset)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	entries := make([]*QueueEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &QueueEntry{
			SyncQueueEntry: row,
			Summary:        describeSnapshot(row),
		})
	}

	return entries, nil
}

// describeSnapshot renders a short label for a queue entry so the audit view
// doesn't have to show raw JSON. It degrades to "table #id" when the snapshot
// is absent or unreadable.
func describeSnapshot(entry *models.SyncQueueEntry) string {
	fallback := fmt.Sprintf("%s #%d", entry.TableName, entry.RecordID)

	if len(entry.Data) == 0 {
		return fallback
	}
	row := Row{}
	if err := json.Unmarshal(entry.Data, &row); err != nil {
		return fallback
	}

	switch entry.TableName {
	case "users":
		if name, ok := row["username"].(string); ok && name != "" {
			return fmt.Sprintf("user %q", name)
		}
	case "patients":
		first, _ := row["first_name"].(string)
		last, _ := row["last_name"].(string)
		if first != "" || last != "" {
			return fmt.Sprintf("patient %q", joinName(first, last))
		}
	case "suppliers", "drugs":
		if name, ok := row["name"].(string); ok && name != "" {
			return fmt.Sprintf("%s %q", singular(entry.TableName), name)
		}
	case "prescriptions":
		if med, ok := row["medication"].(string); ok && med != "" {
			return fmt.Sprintf("prescription for %q", med)
		}
	case "sales":
		if total, ok := row["total_amount"]; ok {
			return fmt.Sprintf("sale #%d (%v)", entry.RecordID, total)
		}
	case "sale_items":
		if qty, ok := asInt(row["quantity"]); ok {
			return fmt.Sprintf("sale item #%d x%d", entry.RecordID, qty)
		}
	}

	return fallback
}

func joinName(first, last string) string {
	if first == "" {
		return last
	}
	if last == "" {
		return first
	}
	return first + " " + last
}

func singular(tableName string) string {
	switch tableName {
	case "suppliers":
		return "supplier"
	case "drugs":
		return "drug"
	default:
		return tableName
	}
}
