package sync

import (
	"context"
	"testing"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newPullEngine(db *bun.DB, store *fakeStore) *pullEngine {
	return &pullEngine{db: db, remote: store, log: newTestLogger()}
}

func remotePatientRow(id int, firstName string, updatedAt time.Time) Row {
	return Row{
		"patient_id": id,
		"first_name": firstName,
		"last_name":  "Remote",
		"age":        40,
		"gender":     "female",
		"contact":    "+254712345678",
		"address":    "",
		"created_at": FormatTimestamp(updatedAt),
		"updated_at": FormatTimestamp(updatedAt),
	}
}

func TestPullInsertsNewRowsPreMarkedSynced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	enableSync(ctx, t, db)
	store := newFakeStore()
	store.rows["patients"] = []Row{remotePatientRow(5, "Wanjiru", time.Now().UTC())}

	report, err := newPullEngine(db, store).pull(ctx, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.FailedTables)

	patient := &models.Patient{}
	require.NoError(t, db.NewSelect().Model(patient).Where("patient_id = ?", 5).Scan(ctx))
	assert.Equal(t, "Wanjiru", patient.FirstName)
	assert.True(t, patient.IsSynced)
	assert.Equal(t, models.SyncStatusSynced, patient.SyncStatus)

	// Pulled rows must not bounce back through the outbox.
	assert.Equal(t, 0, countQueueEntries(ctx, t, db))
}

func TestPullLastWriterWins(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	local := seedPatient(ctx, t, db, "Local")

	t.Run("older remote row is skipped", func(t *testing.T) {
		store.rows["patients"] = []Row{remotePatientRow(local.ID, "Stale", local.UpdatedAt.Add(-time.Hour))}

		report, err := newPullEngine(db, store).pull(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)

		patient := &models.Patient{}
		require.NoError(t, db.NewSelect().Model(patient).Where("patient_id = ?", local.ID).Scan(ctx))
		assert.Equal(t, "Local", patient.FirstName)
	})

	t.Run("identical timestamp keeps local", func(t *testing.T) {
		store.rows["patients"] = []Row{remotePatientRow(local.ID, "Tied", local.UpdatedAt)}

		report, err := newPullEngine(db, store).pull(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Skipped)
	})

	t.Run("newer remote row overwrites", func(t *testing.T) {
		store.rows["patients"] = []Row{remotePatientRow(local.ID, "Fresh", local.UpdatedAt.Add(time.Hour))}

		report, err := newPullEngine(db, store).pull(ctx, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Applied)

		patient := &models.Patient{}
		require.NoError(t, db.NewSelect().Model(patient).Where("patient_id = ?", local.ID).Scan(ctx))
		assert.Equal(t, "Fresh", patient.FirstName)
		assert.True(t, patient.IsSynced)
	})
}

func TestPullSanitizesPatients(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	clamped := remotePatientRow(7, "Clamped", time.Now().UTC())
	clamped["age"] = 900
	clamped["contact"] = "not-a-number"

	unusable := remotePatientRow(8, "Unusable", time.Now().UTC())
	unusable["age"] = "unknown"

	store.rows["patients"] = []Row{clamped, unusable}

	report, err := newPullEngine(db, store).pull(ctx, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 1, report.Skipped)

	patient := &models.Patient{}
	require.NoError(t, db.NewSelect().Model(patient).Where("patient_id = ?", 7).Scan(ctx))
	assert.Equal(t, AgeMax, patient.Age)
	assert.Equal(t, ContactSentinel, patient.Contact)

	exists, err := db.NewSelect().Model((*models.Patient)(nil)).Where("patient_id = ?", 8).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPullTableFailureDoesNotAbortOthers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()
	store.rows["patients"] = []Row{remotePatientRow(5, "Wanjiru", time.Now().UTC())}
	store.failWith = func(op string, table Table, id int64) error {
		if op == "SELECT" && table.Name == "users" {
			return errors.New("remote exploded")
		}
		return nil
	}

	report, err := newPullEngine(db, store).pull(ctx, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Applied)
	require.Len(t, report.FailedTables, 1)
	assert.Equal(t, "users", report.FailedTables[0].Table)
	assert.Contains(t, report.FailedTables[0].Message, "remote exploded")
}

func TestPullHonorsWatermark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	now := time.Now().UTC()
	store.rows["patients"] = []Row{
		remotePatientRow(1, "Old", now.Add(-2*time.Hour)),
		remotePatientRow(2, "New", now),
	}

	report, err := newPullEngine(db, store).pull(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)

	exists, err := db.NewSelect().Model((*models.Patient)(nil)).Where("patient_id = ?", 1).Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}
