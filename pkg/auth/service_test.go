package auth

import (
	"context"
	"database/sql"
	"testing"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/migrations"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/settings"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
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

func newTestService(ctx context.Context, t *testing.T) (*Service, *bun.DB) {
	t.Helper()

	db := newTestDB(t)

	settingsService := settings.NewService(db)
	require.NoError(t, settingsService.SetBool(ctx, models.ConfigKeySyncEnabled, true))

	return NewService(db, sync.NewRecorder(settingsService), "test-secret"), db
}

func TestCreateFirstAdmin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, db := newTestService(ctx, t)

	user, err := service.CreateFirstAdmin(ctx, "admin", "Admin User", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, CheckPassword("s3cret-pass", user.PasswordHash))

	// Setup is queued for upload like any other user write.
	count, err := db.NewSelect().Model((*models.SyncQueueEntry)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// A second setup run is rejected.
	_, err = service.CreateFirstAdmin(ctx, "admin2", "Other Admin", "s3cret-pass")
	assert.True(t, errors.Is(err, errcodes.Forbidden("")))
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(ctx, t)

	user, err := service.CreateFirstAdmin(ctx, "admin", "Admin User", "s3cret-pass")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "admin", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("username is case-insensitive", func(t *testing.T) {
		got, err := service.Authenticate(ctx, "ADMIN", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "admin", "wrong")
		assert.True(t, errors.Is(err, errcodes.Unauthorized("")))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.Authenticate(ctx, "nobody", "s3cret-pass")
		assert.True(t, errors.Is(err, errcodes.Unauthorized("")))
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(ctx, t)

	user := &models.User{ID: 7, Username: "admin", Role: models.RoleAdmin}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(ctx, t)
	other, _ := newTestService(ctx, t)

	user := &models.User{ID: 7, Username: "admin", Role: models.RoleAdmin}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	// Both services use "test-secret", so sign with a different one instead.
	forged := NewService(nil, nil, "other-secret")
	forgedToken, err := forged.GenerateToken(user)
	require.NoError(t, err)

	_, err = other.ValidateToken(forgedToken)
	assert.Error(t, err)

	_, err = other.ValidateToken(token)
	assert.NoError(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, _ := newTestService(ctx, t)

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGetUserByIDSkipsInactive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service, db := newTestService(ctx, t)

	user, err := service.CreateFirstAdmin(ctx, "admin", "Admin User", "s3cret-pass")
	require.NoError(t, err)

	got, err := service.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = db.NewUpdate().
		Model((*models.User)(nil)).
		Set("is_active = ?", false).
		Where("user_id = ?", user.ID).
		Exec(ctx)
	require.NoError(t, err)

	_, err = service.GetUserByID(ctx, user.ID)
	assert.Error(t, err)
}
