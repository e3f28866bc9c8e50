package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/types"
	"github.com/maplecart/storefront-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "storefront", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Category{},
		&types.Product{},
		&types.Order{},
		&types.OrderLine{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return s.EnsureOrderIndexes()
}

// EnsureOrderIndexes installs the storage-level guarantees the order engine
// relies on: at most one open order per customer, and cascading line cleanup
// when an order is deleted.
func (s *PostgresService) EnsureOrderIndexes() error {
	if err := s.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_order_customer_open
		ON "order"(customer_id)
		WHERE status = 'open';
	`).Error; err != nil {
		return fmt.Errorf("create idx_order_customer_open: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "order_line"
		DROP CONSTRAINT IF EXISTS fk_order_line_order_id;
	`).Error; err != nil {
		return fmt.Errorf("drop fk_order_line_order_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "order_line"
		ADD CONSTRAINT fk_order_line_order_id
		FOREIGN KEY (order_id)
		REFERENCES "order"(id)
		ON DELETE CASCADE;
	`).Error; err != nil {
		return fmt.Errorf("add fk_order_line_order_id: %w", err)
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
