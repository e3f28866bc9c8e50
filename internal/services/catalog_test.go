package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

func TestNormalizeLimit(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-5, 50},
		{101, 50},
		{1, 1},
		{100, 100},
	}
	for _, tc := range cases {
		if got := normalizeLimit(tc.in); got != tc.want {
			t.Fatalf("normalizeLimit(%d): want=%d got=%d", tc.in, tc.want, got)
		}
	}
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, &types.Product{Name: "  ", CategoryID: 1})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = env.catalog.CreateProduct(ctx, &types.Product{
		Name:       "chai",
		Price:      decimal.RequireFromString("-1.00"),
		CategoryID: 1,
	})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = env.catalog.CreateProduct(ctx, &types.Product{
		Name:       "chai",
		Price:      decimal.RequireFromString("3.25"),
		CategoryID: 9999,
	})
	require.ErrorIs(t, err, apperr.ErrNotFound, "unknown category must reject the product")
}

func TestCreateAndGetProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.catalog.CreateProduct(ctx, &types.Product{
		Name:       "chai",
		Price:      decimal.RequireFromString("3.25"),
		CategoryID: env.tea.CategoryID,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := env.catalog.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "chai", got.Name)
	require.True(t, got.Price.Equal(decimal.RequireFromString("3.25")))
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.catalog.GetProduct(context.Background(), 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProductRejectsBadPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.UpdateProduct(ctx, env.tea.ID, map[string]any{"price": "not-a-decimal"})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = env.catalog.UpdateProduct(ctx, env.tea.ID, map[string]any{"price": decimal.RequireFromString("-2.00")})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.SearchProducts(ctx, "   ", 10)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	found, err := env.catalog.SearchProducts(ctx, "tea", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, env.tea.ID, found[0].ID)
}
