package repos

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

func newTestDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&types.User{},
		&types.Category{},
		&types.Product{},
		&types.Order{},
		&types.OrderLine{},
	))

	log, err := logger.New("production")
	require.NoError(t, err)
	return db, log
}

func seedOrder(t *testing.T, db *gorm.DB, status types.OrderStatus) *types.Order {
	t.Helper()
	user := &types.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: types.RoleCustomer}
	require.NoError(t, db.Create(user).Error)
	order := &types.Order{CustomerID: user.ID, Status: status, Amount: decimal.Zero}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrderRepoNotFoundMapping(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewOrderRepo(db, log)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, nil, 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.FindOpenByCustomer(ctx, nil, 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.Update(ctx, nil, 9999, map[string]any{"status": types.StatusPlaced})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	err = repo.Delete(ctx, nil, 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOrderRepoFindOpenSkipsClosedOrders(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewOrderRepo(db, log)
	ctx := context.Background()

	placed := seedOrder(t, db, types.StatusPlaced)

	_, err := repo.FindOpenByCustomer(ctx, nil, placed.CustomerID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	open := &types.Order{CustomerID: placed.CustomerID, Status: types.StatusOpen, Amount: decimal.Zero}
	require.NoError(t, db.Create(open).Error)

	found, err := repo.FindOpenByCustomer(ctx, nil, placed.CustomerID)
	require.NoError(t, err)
	require.Equal(t, open.ID, found.ID)
}

func TestOrderLineUniquePerOrderAndProduct(t *testing.T) {
	db, log := newTestDB(t)
	lineRepo := NewOrderLineRepo(db, log)
	ctx := context.Background()

	order := seedOrder(t, db, types.StatusOpen)
	price := decimal.RequireFromString("10.00")

	_, err := lineRepo.Create(ctx, nil, []*types.OrderLine{
		{OrderID: order.ID, ProductID: 1, Quantity: 1, UnitPrice: price},
	})
	require.NoError(t, err)

	_, err = lineRepo.Create(ctx, nil, []*types.OrderLine{
		{OrderID: order.ID, ProductID: 1, Quantity: 2, UnitPrice: price},
	})
	require.Error(t, err, "a second line for the same product must hit the unique index")
}

func TestOrderLineListOrderedByID(t *testing.T) {
	db, log := newTestDB(t)
	lineRepo := NewOrderLineRepo(db, log)
	ctx := context.Background()

	order := seedOrder(t, db, types.StatusOpen)
	price := decimal.RequireFromString("1.00")

	_, err := lineRepo.Create(ctx, nil, []*types.OrderLine{
		{OrderID: order.ID, ProductID: 3, Quantity: 1, UnitPrice: price},
		{OrderID: order.ID, ProductID: 1, Quantity: 1, UnitPrice: price},
		{OrderID: order.ID, ProductID: 2, Quantity: 1, UnitPrice: price},
	})
	require.NoError(t, err)

	lines, err := lineRepo.ListByOrder(ctx, nil, order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	for i := 1; i < len(lines); i++ {
		require.Less(t, lines[i-1].ID, lines[i].ID)
	}
}

func TestOrderRepoUpdateAmount(t *testing.T) {
	db, log := newTestDB(t)
	repo := NewOrderRepo(db, log)
	ctx := context.Background()

	order := seedOrder(t, db, types.StatusOpen)
	require.NoError(t, repo.UpdateAmount(ctx, nil, order.ID, decimal.RequireFromString("42.50")))

	reloaded, err := repo.GetByID(ctx, nil, order.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Amount.Equal(decimal.RequireFromString("42.50")), reloaded.Amount.String())
}
