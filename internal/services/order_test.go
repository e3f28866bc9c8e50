package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

func TestAddOrMergeLineMergesDuplicateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	out, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	require.Equal(t, 2, out.Lines[0].Quantity)
	requireAmount(t, out, "20.00")

	out, err = env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1, "same product must merge, not duplicate")
	require.Equal(t, 4, out.Lines[0].Quantity)
	requireAmount(t, out, "40.00")
}

func TestAddOrMergeLineRejectsNonPositiveNewLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	for _, delta := range []int{0, -1} {
		_, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, delta)
		require.ErrorIs(t, err, apperr.ErrInvalidArgument)
	}

	reloaded, err := env.orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Lines)
	requireAmount(t, reloaded, "0")
}

func TestAddOrMergeLineRejectsDropBelowOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)

	_, err = env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, -5)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	reloaded, err := env.orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Lines[0].Quantity, "failed mutation must leave the order untouched")
	requireAmount(t, reloaded, "20.00")
}

func TestAddOrMergeLineNegativeDeltaShrinksLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 5)
	require.NoError(t, err)

	out, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, -3)
	require.NoError(t, err)
	require.Equal(t, 2, out.Lines[0].Quantity)
	requireAmount(t, out, "20.00")
}

func TestAddOrMergeLineUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	order := env.openOrder(t)

	_, err := env.orders.AddOrMergeLine(context.Background(), order.ID, 9999, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddOrMergeLineUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.AddOrMergeLine(context.Background(), 9999, env.tea.ID, 1)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBulkAddLinesAllOrNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.BulkAddLines(ctx, order.ID, []LineInput{
		{ProductID: env.tea.ID, Quantity: 1},
		{ProductID: 9999, Quantity: 1},
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	reloaded, err := env.orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Lines, "a rejected batch must not leave partial lines")
	requireAmount(t, reloaded, "0")
}

func TestBulkAddLinesRejectsDuplicatesInPayload(t *testing.T) {
	env := newTestEnv(t)
	order := env.openOrder(t)

	_, err := env.orders.BulkAddLines(context.Background(), order.ID, []LineInput{
		{ProductID: env.tea.ID, Quantity: 1},
		{ProductID: env.tea.ID, Quantity: 2},
	})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestBulkAddLinesRejectsProductAlreadyOnOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 1)
	require.NoError(t, err)

	_, err = env.orders.BulkAddLines(ctx, order.ID, []LineInput{{ProductID: env.tea.ID, Quantity: 1}})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestBulkAddLinesEmptyPayload(t *testing.T) {
	env := newTestEnv(t)
	order := env.openOrder(t)

	_, err := env.orders.BulkAddLines(context.Background(), order.ID, nil)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestSetLineQuantityRecomputesAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	out, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)
	requireAmount(t, out, "20.00")

	out, err = env.orders.SetLineQuantity(ctx, out.Lines[0].ID, 5)
	require.NoError(t, err)
	require.Equal(t, 5, out.Lines[0].Quantity)
	requireAmount(t, out, "50.00")

	out, err = env.orders.RemoveLine(ctx, order.ID, env.tea.ID)
	require.NoError(t, err)
	require.Empty(t, out.Lines)
	requireAmount(t, out, "0")
}

func TestSetLineQuantityRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	out, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)

	_, err = env.orders.SetLineQuantity(ctx, out.Lines[0].ID, 0)
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	reloaded, err := env.orders.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Lines[0].Quantity)
	requireAmount(t, reloaded, "20.00")
}

func TestSetLineQuantityUnknownLine(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.SetLineQuantity(context.Background(), 9999, 3)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBulkSetQuantities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	out, err := env.orders.BulkAddLines(ctx, order.ID, []LineInput{
		{ProductID: env.tea.ID, Quantity: 1},
		{ProductID: env.coffee.ID, Quantity: 1},
	})
	require.NoError(t, err)
	requireAmount(t, out, "14.50")

	out, err = env.orders.BulkSetQuantities(ctx, []QuantityUpdate{
		{LineID: out.Lines[0].ID, Quantity: 2},
		{LineID: out.Lines[1].ID, Quantity: 4},
	})
	require.NoError(t, err)
	requireAmount(t, out, "38.00")
}

func TestBulkSetQuantitiesRejectsMixedOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.openOrder(t)
	firstOut, err := env.orders.AddOrMergeLine(ctx, first.ID, env.tea.ID, 1)
	require.NoError(t, err)

	second := &types.Order{CustomerID: env.other.ID, Status: types.StatusOpen, Amount: decimal.Zero}
	require.NoError(t, env.db.Create(second).Error)
	secondOut, err := env.orders.AddOrMergeLine(ctx, second.ID, env.coffee.ID, 1)
	require.NoError(t, err)

	_, err = env.orders.BulkSetQuantities(ctx, []QuantityUpdate{
		{LineID: firstOut.Lines[0].ID, Quantity: 2},
		{LineID: secondOut.Lines[0].ID, Quantity: 2},
	})
	require.ErrorIs(t, err, apperr.ErrInvalidArgument)

	reloaded, err := env.orders.GetOrderByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 1, reloaded.Lines[0].Quantity)
}

func TestRemoveLineMissingProduct(t *testing.T) {
	env := newTestEnv(t)
	order := env.openOrder(t)

	_, err := env.orders.RemoveLine(context.Background(), order.ID, env.tea.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveAllLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.BulkAddLines(ctx, order.ID, []LineInput{
		{ProductID: env.tea.ID, Quantity: 2},
		{ProductID: env.coffee.ID, Quantity: 1},
	})
	require.NoError(t, err)

	out, err := env.orders.RemoveAllLines(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, out.Lines)
	requireAmount(t, out, "0")

	_, err = env.orders.RemoveAllLines(ctx, order.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound, "emptying an empty order is an error")
}

func TestUnitPriceFrozenAtAddTime(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	out, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)
	requireAmount(t, out, "20.00")

	_, err = env.catalog.UpdateProduct(ctx, env.tea.ID, map[string]any{"price": decimal.RequireFromString("99.00")})
	require.NoError(t, err)

	// A later reconciliation still uses the captured unit price.
	out, err = env.orders.SetLineQuantity(ctx, out.Lines[0].ID, 3)
	require.NoError(t, err)
	requireAmount(t, out, "30.00")

	// A fresh line for another product captures the current catalog price.
	out, err = env.orders.AddOrMergeLine(ctx, order.ID, env.coffee.ID, 1)
	require.NoError(t, err)
	requireAmount(t, out, "34.50")
}

func TestGetOrCreateOpenOrderReusesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.orders.GetOrCreateOpenOrder(ctx, env.customer.ID, env.customer.Email)
	require.NoError(t, err)
	require.Equal(t, types.StatusOpen, first.Status)

	second, err := env.orders.GetOrCreateOpenOrder(ctx, env.customer.ID, env.customer.Email)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestGetOrCreateOpenOrderUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.GetOrCreateOpenOrder(context.Background(), 9999, "ghost@example.com")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetOrCreateOpenOrderConcurrent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var g errgroup.Group
	ids := make([]uint, 10)
	for i := 0; i < 10; i++ {
		i := i
		g.Go(func() error {
			order, err := env.orders.GetOrCreateOpenOrder(ctx, env.customer.ID, env.customer.Email)
			if err != nil {
				return err
			}
			ids[i] = order.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		require.Equal(t, ids[0], id, "every caller must see the same open order")
	}

	var openCount int64
	require.NoError(t, env.db.Model(&types.Order{}).
		Where("customer_id = ? AND status = ?", env.customer.ID, types.StatusOpen).
		Count(&openCount).Error)
	require.EqualValues(t, 1, openCount)
}

func TestAddToCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cart, err := env.orders.AddToCart(ctx, env.customer.ID, env.customer.Email, env.tea.ID, 2)
	require.NoError(t, err)
	require.Equal(t, types.StatusOpen, cart.Status)
	require.Equal(t, env.customer.ID, cart.CustomerID)
	requireAmount(t, cart, "20.00")

	cart, err = env.orders.AddToCart(ctx, env.customer.ID, env.customer.Email, env.tea.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	require.Equal(t, 3, cart.Lines[0].Quantity)
	requireAmount(t, cart, "30.00")
}

func TestDeleteOrderRemovesLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	order := env.openOrder(t)

	_, err := env.orders.AddOrMergeLine(ctx, order.ID, env.tea.ID, 2)
	require.NoError(t, err)

	require.NoError(t, env.orders.DeleteOrder(ctx, order.ID))

	_, err = env.orders.GetOrderByID(ctx, order.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	var lineCount int64
	require.NoError(t, env.db.Model(&types.OrderLine{}).Where("order_id = ?", order.ID).Count(&lineCount).Error)
	require.Zero(t, lineCount)
}
