package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/types"
)

// testEnv wires the full service stack against an in-memory sqlite database.
// The pool is pinned to a single connection so every query sees one database.
type testEnv struct {
	db      *gorm.DB
	orders  OrderService
	catalog CatalogService

	customer *types.User
	other    *types.User
	tea      *types.Product // 10.00
	coffee   *types.Product // 4.50
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.Product{},
		&types.Order{},
		&types.OrderLine{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	userRepo := repos.NewUserRepo(db, log)
	categoryRepo := repos.NewCategoryRepo(db, log)
	productRepo := repos.NewProductRepo(db, log)
	orderRepo := repos.NewOrderRepo(db, log)
	lineRepo := repos.NewOrderLineRepo(db, log)

	catalog := NewCatalogService(db, log, productRepo, categoryRepo, nil)
	orders := NewOrderService(db, log, orderRepo, lineRepo, userRepo, catalog)

	env := &testEnv{db: db, orders: orders, catalog: catalog}
	env.seed(t)
	return env
}

func (env *testEnv) seed(t *testing.T) {
	t.Helper()

	env.customer = &types.User{Name: "Ada", Email: "ada@example.com", Password: "x", Role: types.RoleCustomer}
	env.other = &types.User{Name: "Grace", Email: "grace@example.com", Password: "x", Role: types.RoleCustomer}
	if err := env.db.Create(env.customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if err := env.db.Create(env.other).Error; err != nil {
		t.Fatalf("seed second customer: %v", err)
	}

	category := &types.Category{Name: "beverages"}
	if err := env.db.Create(category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}

	env.tea = &types.Product{Name: "tea", Price: decimal.RequireFromString("10.00"), StockQuantity: 100, CategoryID: category.ID}
	env.coffee = &types.Product{Name: "coffee", Price: decimal.RequireFromString("4.50"), StockQuantity: 100, CategoryID: category.ID}
	if err := env.db.Create(env.tea).Error; err != nil {
		t.Fatalf("seed tea: %v", err)
	}
	if err := env.db.Create(env.coffee).Error; err != nil {
		t.Fatalf("seed coffee: %v", err)
	}
}

// openOrder creates an empty open order for the default customer.
func (env *testEnv) openOrder(t *testing.T) *types.Order {
	t.Helper()
	order := &types.Order{CustomerID: env.customer.ID, Status: types.StatusOpen, Amount: decimal.Zero}
	if err := env.db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func requireAmount(t *testing.T, order *types.Order, want string) {
	t.Helper()
	if !order.Amount.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("amount: want=%s got=%s", want, order.Amount)
	}
}
