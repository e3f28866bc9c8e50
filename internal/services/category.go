package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/types"
)

type CategoryService interface {
	GetCategory(ctx context.Context, categoryID uint) (*types.Category, error)
	ListCategories(ctx context.Context, limit int) ([]*types.Category, error)
	CreateCategory(ctx context.Context, category *types.Category) (*types.Category, error)
	UpdateCategory(ctx context.Context, categoryID uint, updates map[string]any) (*types.Category, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
}

type categoryService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
	serviceLog := log.With("service", "CategoryService")
	return &categoryService{db: db, log: serviceLog, categoryRepo: categoryRepo}
}

func (cs *categoryService) GetCategory(ctx context.Context, categoryID uint) (*types.Category, error) {
	return cs.categoryRepo.GetByID(ctx, nil, categoryID)
}

func (cs *categoryService) ListCategories(ctx context.Context, limit int) ([]*types.Category, error) {
	return cs.categoryRepo.List(ctx, nil, normalizeLimit(limit))
}

func (cs *categoryService) CreateCategory(ctx context.Context, category *types.Category) (*types.Category, error) {
	if category == nil || strings.TrimSpace(category.Name) == "" {
		return nil, fmt.Errorf("category name required: %w", apperr.ErrInvalidArgument)
	}
	return cs.categoryRepo.Create(ctx, nil, category)
}

func (cs *categoryService) UpdateCategory(ctx context.Context, categoryID uint, updates map[string]any) (*types.Category, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no category updates provided: %w", apperr.ErrInvalidArgument)
	}
	var out *types.Category
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.categoryRepo.Update(ctx, tx, categoryID, updates); err != nil {
			return err
		}
		reloaded, err := cs.categoryRepo.GetByID(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		out = reloaded
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *categoryService) DeleteCategory(ctx context.Context, categoryID uint) error {
	return cs.categoryRepo.Delete(ctx, nil, categoryID)
}
