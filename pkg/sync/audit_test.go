package sync

import (
	"context"
	"testing"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListQueueSummaries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore(), true)

	patient := seedPatient(ctx, t, db, "Amina")
	queueEntry(ctx, t, db, "patients", models.SyncOpInsert, int64(patient.ID), patient)
	queueEntry(ctx, t, db, "drugs", models.SyncOpUpdate, 9, Row{"drug_id": 9, "name": "Ibuprofen"})
	queueEntry(ctx, t, db, "patients", models.SyncOpDelete, 42, nil)

	entries, err := svc.ListQueue(ctx, ListQueueOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, `patients #42`, entries[0].Summary)
	assert.Equal(t, `drug "Ibuprofen"`, entries[1].Summary)
	assert.Equal(t, `patient "Amina Test"`, entries[2].Summary)
}

func TestListQueueStatusFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := newTestDB(t)
	svc := newTestService(t, db, newFakeStore(), true)

	patient := seedPatient(ctx, t, db, "Amina")
	queueEntry(ctx, t, db, "patients", models.SyncOpInsert, int64(patient.ID), patient)

	entries, err := svc.ListQueue(ctx, ListQueueOptions{Status: models.SyncQueueStatusFailed})
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = svc.ListQueue(ctx, ListQueueOptions{Status: models.SyncQueueStatusPending})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
