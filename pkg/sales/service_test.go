package sales

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/drugs"
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

type testEnv struct {
	db          *bun.DB
	saleService *Service
	drugService *drugs.Service
	user        *models.User
}

func newTestEnv(ctx context.Context, t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	settingsService := settings.NewService(db)
	require.NoError(t, settingsService.SetBool(ctx, models.ConfigKeySyncEnabled, true))
	recorder := sync.NewRecorder(settingsService)

	drugService := drugs.NewService(db, recorder)

	now := time.Now().UTC()
	user := &models.User{
		Username: "cashier", PasswordHash: "x", FullName: "Cashier",
		Role: models.RoleStaff, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	return &testEnv{
		db:          db,
		saleService: NewService(db, recorder, drugService),
		drugService: drugService,
		user:        user,
	}
}

func (e *testEnv) seedDrug(ctx context.Context, t *testing.T, name string, quantity int, price float64) *models.Drug {
	t.Helper()

	drug, err := e.drugService.Create(ctx, drugs.CreateDrugOptions{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: price,
	})
	require.NoError(t, err)
	return drug
}

func TestCreateSale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	paracetamol := env.seedDrug(ctx, t, "Paracetamol", 20, 1.5)
	ibuprofen := env.seedDrug(ctx, t, "Ibuprofen", 10, 2.0)

	sale, err := env.saleService.Create(ctx, CreateSaleOptions{
		UserID: env.user.ID,
		Items: []SaleItemOptions{
			{DrugID: paracetamol.ID, Quantity: 4},
			{DrugID: ibuprofen.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, sale.ID)

	assert.InDelta(t, 4*1.5+2.0, sale.TotalAmount, 0.001)
	require.Len(t, sale.Items, 2)

	// Stock is decremented in the same transaction.
	reloaded, err := env.drugService.Retrieve(ctx, paracetamol.ID)
	require.NoError(t, err)
	assert.Equal(t, 16, reloaded.Quantity)

	reloaded, err = env.drugService.Retrieve(ctx, ibuprofen.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Quantity)

	// Two drug creates, the sale, two items, and two stock adjustments.
	count, err := env.db.NewSelect().Model((*models.SyncQueueEntry)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestCreateSaleInsufficientStockRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	drug := env.seedDrug(ctx, t, "Paracetamol", 3, 1.5)

	_, err := env.saleService.Create(ctx, CreateSaleOptions{
		UserID: env.user.ID,
		Items:  []SaleItemOptions{{DrugID: drug.ID, Quantity: 5}},
	})
	require.Error(t, err)

	// Nothing landed: no sale, no items, stock untouched.
	count, err := env.db.NewSelect().Model((*models.Sale)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	reloaded, err := env.drugService.Retrieve(ctx, drug.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Quantity)

	// Only the drug create is queued.
	queued, err := env.db.NewSelect().Model((*models.SyncQueueEntry)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, queued)
}

func TestCreateSaleRequiresItems(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	_, err := env.saleService.Create(ctx, CreateSaleOptions{UserID: env.user.ID})
	assert.Error(t, err)
}

func TestCreateSaleUnknownDrug(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	_, err := env.saleService.Create(ctx, CreateSaleOptions{
		UserID: env.user.ID,
		Items:  []SaleItemOptions{{DrugID: 999, Quantity: 1}},
	})
	assert.Error(t, err)
}

func TestListSalesByDateRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	drug := env.seedDrug(ctx, t, "Paracetamol", 20, 1.5)
	_, err := env.saleService.Create(ctx, CreateSaleOptions{
		UserID: env.user.ID,
		Items:  []SaleItemOptions{{DrugID: drug.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	_, total, err := env.saleService.List(ctx, ListOptions{From: &past, To: &future})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = env.saleService.List(ctx, ListOptions{To: &past})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestBuildReceipt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(ctx, t)

	settingsService := settings.NewService(env.db)
	require.NoError(t, settingsService.Set(ctx, models.ConfigKeyClinicName, "Sunrise Clinic"))
	require.NoError(t, settingsService.Set(ctx, models.ConfigKeyReceiptFooter, "Get well soon"))

	drug := env.seedDrug(ctx, t, "Paracetamol", 20, 1.5)
	sale, err := env.saleService.Create(ctx, CreateSaleOptions{
		UserID: env.user.ID,
		Items:  []SaleItemOptions{{DrugID: drug.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	receipt, err := env.saleService.BuildReceipt(ctx, settingsService, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "Sunrise Clinic", receipt.ClinicName)
	assert.Equal(t, "Get well soon", receipt.Footer)
	assert.Equal(t, "Cashier", receipt.ServedBy)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Paracetamol", receipt.Lines[0].Drug)
	assert.InDelta(t, 3.0, receipt.Lines[0].LineTotal, 0.001)
	assert.InDelta(t, 3.0, receipt.Total, 0.001)
}
