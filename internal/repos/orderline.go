package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

type OrderLineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lines []*types.OrderLine) ([]*types.OrderLine, error)
	GetByID(ctx context.Context, tx *gorm.DB, lineID uint) (*types.OrderLine, error)
	ListByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]types.OrderLine, error)
	UpdateQuantity(ctx context.Context, tx *gorm.DB, lineID uint, quantity int) error
	DeleteByOrderAndProduct(ctx context.Context, tx *gorm.DB, orderID, productID uint) (int64, error)
	DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (int64, error)
}

type orderLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderLineRepo(db *gorm.DB, baseLog *logger.Logger) OrderLineRepo {
	repoLog := baseLog.With("repo", "OrderLineRepo")
	return &orderLineRepo{db: db, log: repoLog}
}

func (lr *orderLineRepo) Create(ctx context.Context, tx *gorm.DB, lines []*types.OrderLine) ([]*types.OrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if len(lines) == 0 {
		return []*types.OrderLine{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (lr *orderLineRepo) GetByID(ctx context.Context, tx *gorm.DB, lineID uint) (*types.OrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var result types.OrderLine
	if err := transaction.WithContext(ctx).
		First(&result, lineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order line %d: %w", lineID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (lr *orderLineRepo) ListByOrder(ctx context.Context, tx *gorm.DB, orderID uint) ([]types.OrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var results []types.OrderLine
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (lr *orderLineRepo) UpdateQuantity(ctx context.Context, tx *gorm.DB, lineID uint, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.OrderLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order line %d: %w", lineID, apperr.ErrNotFound)
	}
	return nil
}

func (lr *orderLineRepo) DeleteByOrderAndProduct(ctx context.Context, tx *gorm.DB, orderID, productID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	res := transaction.WithContext(ctx).
		Where("order_id = ? AND product_id = ?", orderID, productID).
		Delete(&types.OrderLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (lr *orderLineRepo) DeleteByOrder(ctx context.Context, tx *gorm.DB, orderID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	res := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&types.OrderLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
