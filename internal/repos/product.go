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

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, productID uint) (*types.Product, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*types.Product, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Product, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uint, limit int) ([]*types.Product, error)
	SearchByName(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Product, error)
	Update(ctx context.Context, tx *gorm.DB, productID uint, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, productID uint) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	repoLog := baseLog.With("repo", "ProductRepo")
	return &productRepo{db: db, log: repoLog}
}

func (pr *productRepo) Create(ctx context.Context, tx *gorm.DB, product *types.Product) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (pr *productRepo) GetByID(ctx context.Context, tx *gorm.DB, productID uint) (*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Product
	if err := transaction.WithContext(ctx).
		Preload("Category").
		First(&result, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (pr *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, productIDs []uint) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Product
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Product
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Limit(limit).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) ListByCategory(ctx context.Context, tx *gorm.DB, categoryID uint, limit int) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Product
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Limit(limit).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) SearchByName(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*types.Product, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Product
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Where("name LIKE ?", "%"+query+"%").
		Limit(limit).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *productRepo) Update(ctx context.Context, tx *gorm.DB, productID uint, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	return nil
}

func (pr *productRepo) Delete(ctx context.Context, tx *gorm.DB, productID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Product{}, productID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	return nil
}
