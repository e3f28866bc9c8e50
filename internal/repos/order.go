package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, orderID uint) (*types.Order, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Order, error)
	ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uint, limit int) ([]*types.Order, error)
	FindOpenByCustomer(ctx context.Context, tx *gorm.DB, customerID uint) (*types.Order, error)
	UpdateAmount(ctx context.Context, tx *gorm.DB, orderID uint, amount decimal.Decimal) error
	Update(ctx context.Context, tx *gorm.DB, orderID uint, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, orderID uint) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	repoLog := baseLog.With("repo", "OrderRepo")
	return &orderRepo{db: db, log: repoLog}
}

// withOrderAssociations is the read contract: an order is always returned
// with its lines resolved to product details.
func withOrderAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_line.id") }).
		Preload("Lines.Product").
		Preload("Customer")
}

func (or *orderRepo) Create(ctx context.Context, tx *gorm.DB, order *types.Order) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	if err := transaction.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (or *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, orderID uint) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var result types.Order
	if err := withOrderAssociations(transaction.WithContext(ctx)).
		First(&result, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (or *orderRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.Order
	if err := withOrderAssociations(transaction.WithContext(ctx)).
		Limit(limit).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) ListByCustomer(ctx context.Context, tx *gorm.DB, customerID uint, limit int) ([]*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var results []*types.Order
	if err := withOrderAssociations(transaction.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Limit(limit).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (or *orderRepo) FindOpenByCustomer(ctx context.Context, tx *gorm.DB, customerID uint) (*types.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	var result types.Order
	if err := withOrderAssociations(transaction.WithContext(ctx)).
		Where("customer_id = ? AND status = ?", customerID, types.StatusOpen).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("open order for customer %d: %w", customerID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (or *orderRepo) UpdateAmount(ctx context.Context, tx *gorm.DB, orderID uint, amount decimal.Decimal) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ?", orderID).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}

func (or *orderRepo) Update(ctx context.Context, tx *gorm.DB, orderID uint, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Order{}).
		Where("id = ?", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}

func (or *orderRepo) Delete(ctx context.Context, tx *gorm.DB, orderID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Order{}, orderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return nil
}
