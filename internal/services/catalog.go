package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/clients/redis"
	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/types"
)

// CatalogService owns products. The order engine uses GetProduct as its sole
// price and existence oracle; everything else is catalog administration.
type CatalogService interface {
	GetProduct(ctx context.Context, productID uint) (*types.Product, error)
	ListProducts(ctx context.Context, limit int) ([]*types.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID uint, limit int) ([]*types.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]*types.Product, error)
	CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID uint, updates map[string]any) (*types.Product, error)
	DeleteProduct(ctx context.Context, productID uint) error
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	productRepo  repos.ProductRepo
	categoryRepo repos.CategoryRepo
	cache        redis.ProductCache
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, productRepo repos.ProductRepo, categoryRepo repos.CategoryRepo, cache redis.ProductCache) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:           db,
		log:          serviceLog,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
	}
}

func (cs *catalogService) GetProduct(ctx context.Context, productID uint) (*types.Product, error) {
	if cs.cache != nil {
		cached, err := cs.cache.Get(ctx, productID)
		if err != nil {
			cs.log.Warn("Product cache read failed, falling back to database", "product_id", productID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	product, err := cs.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}

	if cs.cache != nil {
		if err := cs.cache.Set(ctx, product); err != nil {
			cs.log.Warn("Product cache write failed", "product_id", productID, "error", err)
		}
	}
	return product, nil
}

func (cs *catalogService) ListProducts(ctx context.Context, limit int) ([]*types.Product, error) {
	return cs.productRepo.List(ctx, nil, normalizeLimit(limit))
}

func (cs *catalogService) ListProductsByCategory(ctx context.Context, categoryID uint, limit int) ([]*types.Product, error) {
	return cs.productRepo.ListByCategory(ctx, nil, categoryID, normalizeLimit(limit))
}

func (cs *catalogService) SearchProducts(ctx context.Context, query string, limit int) ([]*types.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query required: %w", apperr.ErrInvalidArgument)
	}
	return cs.productRepo.SearchByName(ctx, nil, query, normalizeLimit(limit))
}

func (cs *catalogService) CreateProduct(ctx context.Context, product *types.Product) (*types.Product, error) {
	if product == nil || strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("product name required: %w", apperr.ErrInvalidArgument)
	}
	if product.Price.IsNegative() {
		return nil, fmt.Errorf("product price must be non-negative: %w", apperr.ErrInvalidArgument)
	}
	if product.StockQuantity < 0 {
		return nil, fmt.Errorf("product stock must be non-negative: %w", apperr.ErrInvalidArgument)
	}

	var out *types.Product
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := cs.categoryRepo.GetByID(ctx, tx, product.CategoryID); err != nil {
			return err
		}
		created, err := cs.productRepo.Create(ctx, tx, product)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		out = created
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *catalogService) UpdateProduct(ctx context.Context, productID uint, updates map[string]any) (*types.Product, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("no product updates provided: %w", apperr.ErrInvalidArgument)
	}
	if raw, ok := updates["price"]; ok {
		price, ok := raw.(decimal.Decimal)
		if !ok || price.IsNegative() {
			return nil, fmt.Errorf("product price must be non-negative: %w", apperr.ErrInvalidArgument)
		}
	}

	var out *types.Product
	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.productRepo.Update(ctx, tx, productID, updates); err != nil {
			return err
		}
		reloaded, err := cs.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		out = reloaded
		return nil
	}); err != nil {
		return nil, err
	}

	cs.invalidate(ctx, productID)
	return out, nil
}

func (cs *catalogService) DeleteProduct(ctx context.Context, productID uint) error {
	if err := cs.productRepo.Delete(ctx, nil, productID); err != nil {
		return err
	}
	cs.invalidate(ctx, productID)
	return nil
}

func (cs *catalogService) invalidate(ctx context.Context, productID uint) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.Invalidate(ctx, productID); err != nil {
		cs.log.Warn("Product cache invalidation failed", "product_id", productID, "error", err)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
