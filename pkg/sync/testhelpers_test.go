package sync

import (
	"context"
	"database/sql"
	"path/filepath"
	stdsync "sync"
	"testing"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/migrations"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/robinjoseph08/golib/logger"
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

func enableSync(ctx context.Context, t *testing.T, db *bun.DB) *settings.Service {
	t.Helper()

	settingsService := settings.NewService(db)
	require.NoError(t, settingsService.SetBool(ctx, models.ConfigKeySyncEnabled, true))
	return settingsService
}

func newTestWatermark(t *testing.T) *Watermark {
	t.Helper()
	return NewWatermark(filepath.Join(t.TempDir(), "watermark"))
}

// storeCall records one remote operation for assertions.
type storeCall struct {
	Op    string
	Table string
	ID    int64
	Row   Row
}

// fakeStore is an in-memory Store. Failures can be injected per table or per
// call through failWith.
type fakeStore struct {
	mu       stdsync.Mutex
	calls    []storeCall
	rows     map[string][]Row
	failWith func(op string, table Table, id int64) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string][]Row{}}
}

func (s *fakeStore) record(op string, table Table, id int64, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		if err := s.failWith(op, table, id); err != nil {
			return err
		}
	}
	s.calls = append(s.calls, storeCall{Op: op, Table: table.Name, ID: id, Row: row})
	return nil
}

func (s *fakeStore) SelectUpdatedSince(ctx context.Context, table Table, since time.Time) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		if err := s.failWith("SELECT", table, 0); err != nil {
			return nil, err
		}
	}
	out := []Row{}
	for _, row := range s.rows[table.Name] {
		updated, err := ParseTimestamp(row["updated_at"])
		if err != nil {
			return nil, err
		}
		if updated.After(since) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(ctx context.Context, table Table, row Row) error {
	return s.record("INSERT", table, 0, row)
}

func (s *fakeStore) Update(ctx context.Context, table Table, id int64, row Row) error {
	return s.record("UPDATE", table, id, row)
}

func (s *fakeStore) Upsert(ctx context.Context, table Table, row Row) error {
	return s.record("UPSERT", table, 0, row)
}

func (s *fakeStore) Delete(ctx context.Context, table Table, id int64) error {
	return s.record("DELETE", table, id, nil)
}

func (s *fakeStore) callsFor(tableName string) []storeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []storeCall{}
	for _, call := range s.calls {
		if call.Table == tableName {
			out = append(out, call)
		}
	}
	return out
}

// fakeProbe reports a fixed connectivity state.
type fakeProbe struct {
	online bool
}

func (p *fakeProbe) IsOnline(ctx context.Context) bool {
	return p.online
}

func seedUser(ctx context.Context, t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         models.RoleStaff,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   models.SyncStatusPending,
	}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)
	return user
}

func seedPatient(ctx context.Context, t *testing.T, db *bun.DB, firstName string) *models.Patient {
	t.Helper()

	now := time.Now().UTC()
	patient := &models.Patient{
		FirstName:  firstName,
		LastName:   "Test",
		Age:        30,
		Gender:     "female",
		Contact:    "+254712345678",
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: models.SyncStatusPending,
	}
	_, err := db.NewInsert().Model(patient).Exec(ctx)
	require.NoError(t, err)
	return patient
}

func queueEntry(ctx context.Context, t *testing.T, db *bun.DB, tableName, operation string, recordID int64, snapshot interface{}) *models.SyncQueueEntry {
	t.Helper()

	recorder := NewRecorder(enableSync(ctx, t, db))
	require.NoError(t, db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return recorder.Record(ctx, tx, tableName, operation, recordID, snapshot)
	}))

	entry := &models.SyncQueueEntry{}
	err := db.NewSelect().
		Model(entry).
		Where("table_name = ?", tableName).
		Where("record_id = ?", recordID).
		Order("queue_id DESC").
		Limit(1).
		Scan(ctx)
	require.NoError(t, err)
	return entry
}

func newTestLogger() logger.Logger {
	return logger.New()
}
