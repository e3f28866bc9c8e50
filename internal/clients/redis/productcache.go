package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maplecart/storefront-backend/internal/logger"
	"github.com/maplecart/storefront-backend/internal/types"
)

// ProductCache is a read-through cache in front of the catalog. The catalog
// service treats a nil cache or any cache error as a miss and falls back to
// Postgres, so Redis stays optional infrastructure.
type ProductCache interface {
	Get(ctx context.Context, productID uint) (*types.Product, error)
	Set(ctx context.Context, product *types.Product) error
	Invalidate(ctx context.Context, productID uint) error
	Close() error
}

type productCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewProductCache(log *logger.Logger) (ProductCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &productCache{
		log: log.With("client", "ProductCache"),
		rdb: rdb,
		ttl: 10 * time.Minute,
	}, nil
}

func productKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

func (pc *productCache) Get(ctx context.Context, productID uint) (*types.Product, error) {
	raw, err := pc.rdb.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var product types.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, fmt.Errorf("decode cached product: %w", err)
	}
	return &product, nil
}

func (pc *productCache) Set(ctx context.Context, product *types.Product) error {
	if product == nil {
		return nil
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	return pc.rdb.Set(ctx, productKey(product.ID), raw, pc.ttl).Err()
}

func (pc *productCache) Invalidate(ctx context.Context, productID uint) error {
	return pc.rdb.Del(ctx, productKey(productID)).Err()
}

func (pc *productCache) Close() error {
	return pc.rdb.Close()
}
