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

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, categoryID uint) (*types.Category, error)
	List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Category, error)
	Update(ctx context.Context, tx *gorm.DB, categoryID uint, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, categoryID uint) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (cr *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uint) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Category
	if err := transaction.WithContext(ctx).
		First(&result, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
		}
		return nil, err
	}
	return &result, nil
}

func (cr *categoryRepo) List(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Category
	if err := transaction.WithContext(ctx).
		Limit(limit).
		Order("name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *categoryRepo) Update(ctx context.Context, tx *gorm.DB, categoryID uint, updates map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Model(&types.Category{}).
		Where("id = ?", categoryID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	return nil
}

func (cr *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, categoryID uint) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).Delete(&types.Category{}, categoryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	return nil
}
