package patients

import (
	"context"
	"database/sql"
	"testing"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/migrations"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newTestService(ctx context.Context, t *testing.T, db *bun.DB) *Service {
	t.Helper()

	settingsService := settings.NewService(db)
	require.NoError(t, settingsService.SetBool(ctx, models.ConfigKeySyncEnabled, true))
	return NewService(db, sync.NewRecorder(settingsService))
}

func queueCount(ctx context.Context, t *testing.T, db *bun.DB) int {
	t.Helper()

	count, err := db.NewSelect().Model((*models.SyncQueueEntry)(nil)).Count(ctx)
	require.NoError(t, err)
	return count
}

func TestServiceCreateQueuesEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	patient, err := svc.Create(ctx, CreatePatientOptions{
		FirstName: "Amina",
		LastName:  "Odhiambo",
		Age:       34,
		Gender:    "female",
		Contact:   "+254712345678",
	})
	require.NoError(t, err)
	require.NotZero(t, patient.ID)

	assert.False(t, patient.IsSynced)
	assert.Equal(t, models.SyncStatusPending, patient.SyncStatus)
	assert.Equal(t, 1, queueCount(ctx, t, db))

	entry := &models.SyncQueueEntry{}
	require.NoError(t, db.NewSelect().Model(entry).Scan(ctx))
	assert.Equal(t, "patients", entry.TableName)
	assert.Equal(t, models.SyncOpInsert, entry.Operation)
	assert.Equal(t, int64(patient.ID), entry.RecordID)
}

func TestServiceUpdateStampsAndQueues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	patient, err := svc.Create(ctx, CreatePatientOptions{
		FirstName: "Amina",
		LastName:  "Odhiambo",
		Age:       34,
		Gender:    "female",
		Contact:   "+254712345678",
	})
	require.NoError(t, err)

	createdAt := patient.UpdatedAt
	patient.Age = 35
	require.NoError(t, svc.Update(ctx, patient, UpdateOptions{Columns: []string{"age"}}))

	reloaded, err := svc.Retrieve(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, reloaded.Age)
	assert.False(t, reloaded.UpdatedAt.Before(createdAt))
	assert.Equal(t, 2, queueCount(ctx, t, db))
}

func TestServiceUpdateNoColumnsIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	patient, err := svc.Create(ctx, CreatePatientOptions{
		FirstName: "Amina", LastName: "Odhiambo", Age: 34, Gender: "female", Contact: "+254712345678",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, patient, UpdateOptions{}))
	assert.Equal(t, 1, queueCount(ctx, t, db))
}

func TestServiceDeleteQueuesDeletion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	patient, err := svc.Create(ctx, CreatePatientOptions{
		FirstName: "Amina", LastName: "Odhiambo", Age: 34, Gender: "female", Contact: "+254712345678",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, patient.ID))

	_, err = svc.Retrieve(ctx, patient.ID)
	assert.Error(t, err)

	entry := &models.SyncQueueEntry{}
	require.NoError(t, db.NewSelect().
		Model(entry).
		Where("operation = ?", models.SyncOpDelete).
		Scan(ctx))
	assert.Equal(t, int64(patient.ID), entry.RecordID)
	assert.Empty(t, entry.Data)
}

func TestServiceDeleteBlockedByPrescriptions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	patient, err := svc.Create(ctx, CreatePatientOptions{
		FirstName: "Amina", LastName: "Odhiambo", Age: 34, Gender: "female", Contact: "+254712345678",
	})
	require.NoError(t, err)

	prescription := &models.Prescription{PatientID: patient.ID, UserID: 1, Medication: "Amoxicillin"}
	_, err = db.NewInsert().Model(prescription).Exec(ctx)
	require.NoError(t, err)

	err = svc.Delete(ctx, patient.ID)
	assert.Error(t, err)

	_, err = svc.Retrieve(ctx, patient.ID)
	assert.NoError(t, err)
}

func TestServiceListSearch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(ctx, t, db)

	for _, name := range []string{"Amina", "Brian", "Caro"} {
		_, err := svc.Create(ctx, CreatePatientOptions{
			FirstName: name, LastName: "Test", Age: 30, Gender: "other", Contact: "+254712345678",
		})
		require.NoError(t, err)
	}

	results, total, err := svc.List(ctx, ListOptions{Search: "Bri"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, results, 1)
	assert.Equal(t, "Brian", results[0].FirstName)

	_, total, err = svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}
