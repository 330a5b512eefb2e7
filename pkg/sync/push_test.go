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

func newPushEngine(db *bun.DB, store *fakeStore) *pushEngine {
	return &pushEngine{db: db, remote: store, log: newTestLogger()}
}

func reloadEntry(ctx context.Context, t *testing.T, db *bun.DB, id int64) *models.SyncQueueEntry {
	t.Helper()

	entry := &models.SyncQueueEntry{}
	require.NoError(t, db.NewSelect().Model(entry).Where("queue_id = ?", id).Scan(ctx))
	return entry
}

func TestPushMarksEntryAndRowSynced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	patient := seedPatient(ctx, t, db, "Amina")
	entry := queueEntry(ctx, t, db, "patients", models.SyncOpInsert, int64(patient.ID), patient)

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Attempted)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 0, report.Failed)

	calls := store.callsFor("patients")
	require.Len(t, calls, 1)
	assert.Equal(t, "INSERT", calls[0].Op)
	assert.Equal(t, "Amina", calls[0].Row["first_name"])

	assert.Equal(t, models.SyncQueueStatusSynced, reloadEntry(ctx, t, db, entry.ID).Status)

	reloaded := &models.Patient{}
	require.NoError(t, db.NewSelect().Model(reloaded).Where("patient_id = ?", patient.ID).Scan(ctx))
	assert.True(t, reloaded.IsSynced)
	assert.Equal(t, models.SyncStatusSynced, reloaded.SyncStatus)
}

func TestPushDependencyOrdering(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	// Queue the drug before its supplier. Creation order must lose to
	// dependency order.
	now := time.Now().UTC()
	supplierID := 10
	drug := &models.Drug{Name: "Paracetamol", Quantity: 5, UnitPrice: 1.5, SupplierID: &supplierID, CreatedAt: now, UpdatedAt: now}
	supplier := &models.Supplier{Name: "Acme Pharma", Contact: "+254700000001", CreatedAt: now, UpdatedAt: now}

	queueEntry(ctx, t, db, "drugs", models.SyncOpInsert, 1, drug)
	queueEntry(ctx, t, db, "suppliers", models.SyncOpInsert, int64(supplierID), supplier)

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Synced)

	require.Len(t, store.calls, 2)
	assert.Equal(t, "suppliers", store.calls[0].Table)
	assert.Equal(t, "drugs", store.calls[1].Table)
}

func TestPushEntryFailureDoesNotAbortPass(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()
	store.failWith = func(op string, table Table, id int64) error {
		if table.Name == "suppliers" {
			return errors.New("remote exploded")
		}
		return nil
	}

	patient := seedPatient(ctx, t, db, "Amina")
	now := time.Now().UTC()
	supplier := &models.Supplier{Name: "Acme Pharma", Contact: "+254700000001", CreatedAt: now, UpdatedAt: now}

	failing := queueEntry(ctx, t, db, "suppliers", models.SyncOpInsert, 1, supplier)
	ok := queueEntry(ctx, t, db, "patients", models.SyncOpInsert, int64(patient.ID), patient)

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "suppliers", report.Errors[0].Table)

	failedEntry := reloadEntry(ctx, t, db, failing.ID)
	assert.Equal(t, models.SyncQueueStatusFailed, failedEntry.Status)
	require.NotNil(t, failedEntry.Error)
	assert.Contains(t, *failedEntry.Error, "remote exploded")

	assert.Equal(t, models.SyncQueueStatusSynced, reloadEntry(ctx, t, db, ok.ID).Status)
}

func TestPushUnknownTableMarksEntryFailed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	entry := queueEntry(ctx, t, db, "visits", models.SyncOpInsert, 1, Row{"visit_id": 1})

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, store.calls)

	failed := reloadEntry(ctx, t, db, entry.ID)
	assert.Equal(t, models.SyncQueueStatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Contains(t, *failed.Error, "unknown table")
}

func TestPushInvalidPatientNeverLeavesDevice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	entry := queueEntry(ctx, t, db, "patients", models.SyncOpInsert, 1, Row{
		"patient_id": 1,
		"first_name": "Amina",
		"age":        900,
		"updated_at": time.Now().UTC(),
	})

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Empty(t, store.calls)
	assert.Equal(t, models.SyncQueueStatusFailed, reloadEntry(ctx, t, db, entry.ID).Status)
}

func TestPushDeleteSkipsRowMark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	entry := queueEntry(ctx, t, db, "patients", models.SyncOpDelete, 99, nil)

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)

	calls := store.callsFor("patients")
	require.Len(t, calls, 1)
	assert.Equal(t, "DELETE", calls[0].Op)
	assert.Equal(t, int64(99), calls[0].ID)

	assert.Equal(t, models.SyncQueueStatusSynced, reloadEntry(ctx, t, db, entry.ID).Status)
}

func TestPushRepairsMissingUserDependency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	user := seedUser(ctx, t, db, "cashier")
	patient := seedPatient(ctx, t, db, "Amina")

	now := time.Now().UTC()
	prescription := &models.Prescription{
		PatientID:  patient.ID,
		UserID:     user.ID,
		Medication: "Amoxicillin",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := db.NewInsert().Model(prescription).Exec(ctx)
	require.NoError(t, err)

	queueEntry(ctx, t, db, "prescriptions", models.SyncOpInsert, int64(prescription.ID), prescription)

	store.failWith = func(op string, table Table, id int64) error {
		if table.Name == "prescriptions" {
			return &APIError{StatusCode: 409, Body: `insert violates foreign key constraint "prescriptions_user_id_fkey"`}
		}
		return nil
	}

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []int64{int64(user.ID)}, report.RepairedUsers)

	upserts := store.callsFor("users")
	require.Len(t, upserts, 1)
	assert.Equal(t, "UPSERT", upserts[0].Op)
	assert.Equal(t, "cashier", upserts[0].Row["username"])

	reloaded := &models.User{}
	require.NoError(t, db.NewSelect().Model(reloaded).Where("user_id = ?", user.ID).Scan(ctx))
	assert.True(t, reloaded.IsSynced)
}

func TestPushRepairsUserBehindFailedSaleItem(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	store := newFakeStore()

	user := seedUser(ctx, t, db, "cashier")

	now := time.Now().UTC()
	sale := &models.Sale{UserID: user.ID, TotalAmount: 3, SaleDate: now, CreatedAt: now, UpdatedAt: now}
	_, err := db.NewInsert().Model(sale).Exec(ctx)
	require.NoError(t, err)

	item := &models.SaleItem{SaleID: sale.ID, DrugID: 1, Quantity: 2, UnitPrice: 1.5, CreatedAt: now, UpdatedAt: now}
	queueEntry(ctx, t, db, "sale_items", models.SyncOpInsert, 1, item)

	store.failWith = func(op string, table Table, id int64) error {
		if table.Name == "sale_items" {
			return &APIError{StatusCode: 409, Body: `insert violates foreign key constraint "sale_items_sale_id_fkey"`}
		}
		return nil
	}

	report, err := newPushEngine(db, store).push(ctx)
	require.NoError(t, err)

	// The sale row is local only, so the repair targets the user who made it.
	assert.Equal(t, []int64{int64(user.ID)}, report.RepairedUsers)
	require.Len(t, store.callsFor("users"), 1)
}
