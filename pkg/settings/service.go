package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service reads and writes app_config key-value pairs. The sync engine
// re-reads sync_enabled through this service on every decision point rather
// than caching it, so flipping the toggle takes effect immediately.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Get returns the value of a key, or the empty string when the key is absent.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	return get(ctx, s.db, key)
}

// GetBool interprets a key as a boolean flag. Absent keys are false.
func (s *Service) GetBool(ctx context.Context, key string) (bool, error) {
	return getBool(ctx, s.db, key)
}

// SyncEnabledTx reads the sync toggle inside the caller's transaction so the
// mutation recorder's gate check shares the write's snapshot.
func (s *Service) SyncEnabledTx(ctx context.Context, idb bun.IDB) (bool, error) {
	return getBool(ctx, idb, models.ConfigKeySyncEnabled)
}

// Set upserts a key.
func (s *Service) Set(ctx context.Context, key, value string) error {
	cfg := &models.AppConfig{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(cfg).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// SetBool upserts a boolean flag, stored as "1"/"0".
func (s *Service) SetBool(ctx context.Context, key string, value bool) error {
	v := "0"
	if value {
		v = "1"
	}
	return s.Set(ctx, key, v)
}

// List returns all config rows for the settings screen.
func (s *Service) List(ctx context.Context) ([]*models.AppConfig, error) {
	configs := []*models.AppConfig{}
	err := s.db.NewSelect().
		Model(&configs).
		Order("key ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return configs, nil
}

func get(ctx context.Context, idb bun.IDB, key string) (string, error) {
	cfg := &models.AppConfig{}
	err := idb.NewSelect().
		Model(cfg).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", errors.WithStack(err)
	}
	return cfg.Value, nil
}

func getBool(ctx context.Context, idb bun.IDB, key string) (bool, error) {
	value, err := get(ctx, idb, key)
	if err != nil {
		return false, err
	}
	return value == "1" || value == "true", nil
}
