package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

// lineMutation changes an order's line set inside the reconcile transaction.
// The order passed in carries the pre-mutation lines.
type lineMutation func(ctx context.Context, tx *gorm.DB, order *types.Order) error

// reconcile is the single primitive behind every order mutation: load the
// order, apply the mutation, recompute the amount from the complete
// resulting line set, and persist lines and amount in one transaction. The
// per-order lock serializes reconciliations against the same order in
// process; the transaction keeps each one atomic, so a failed mutation
// leaves the order untouched.
//
// The amount is always rebuilt from scratch, never patched with a delta, so
// drift can not accumulate across mutation paths.
func (os *orderService) reconcile(ctx context.Context, orderID uint, mutate lineMutation) (*types.Order, error) {
	unlock := os.orderLocks.lock(orderID)
	defer unlock()

	var out *types.Order
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := os.orderRepo.GetByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := mutate(ctx, tx, order); err != nil {
			return err
		}
		lines, err := os.lineRepo.ListByOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		amount, err := ComputeOrderAmount(lines)
		if err != nil {
			return err
		}
		if err := os.orderRepo.UpdateAmount(ctx, tx, orderID, amount); err != nil {
			return err
		}
		reloaded, err := os.orderRepo.GetByID(ctx, tx, orderID)
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

// AddOrMergeLine adds quantityDelta of a product to the order. An existing
// line for the product absorbs the delta instead of creating a duplicate
// row; a new line captures the catalog's current price.
func (os *orderService) AddOrMergeLine(ctx context.Context, orderID, productID uint, quantityDelta int) (*types.Order, error) {
	product, err := os.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		if existing := order.LineFor(productID); existing != nil {
			newQuantity := existing.Quantity + quantityDelta
			if newQuantity < 1 {
				return fmt.Errorf("quantity for product %d would drop to %d: %w", productID, newQuantity, apperr.ErrInvalidArgument)
			}
			return os.lineRepo.UpdateQuantity(ctx, tx, existing.ID, newQuantity)
		}
		if quantityDelta < 1 {
			return fmt.Errorf("quantity must be at least 1, got %d: %w", quantityDelta, apperr.ErrInvalidArgument)
		}
		line := &types.OrderLine{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  quantityDelta,
			UnitPrice: product.Price,
		}
		if _, err := os.lineRepo.Create(ctx, tx, []*types.OrderLine{line}); err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
		return nil
	})
}

// BulkAddLines creates one line per payload entry, used when an order is
// filled from a complete cart payload. The batch is resolved against the
// catalog before the transaction and validated against the order's existing
// lines before any write; one bad entry rejects the whole batch.
func (os *orderService) BulkAddLines(ctx context.Context, orderID uint, items []LineInput) (*types.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("empty line item payload: %w", apperr.ErrInvalidArgument)
	}
	lines, err := os.buildLines(ctx, items)
	if err != nil {
		return nil, err
	}
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		for _, line := range lines {
			if order.LineFor(line.ProductID) != nil {
				return fmt.Errorf("order %d already has a line for product %d: %w", orderID, line.ProductID, apperr.ErrInvalidArgument)
			}
			line.OrderID = order.ID
		}
		if _, err := os.lineRepo.Create(ctx, tx, lines); err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}
		return nil
	})
}

// buildLines resolves a payload against the catalog and freezes each unit
// price. Missing products fail the whole payload with the offending id.
func (os *orderService) buildLines(ctx context.Context, items []LineInput) ([]*types.OrderLine, error) {
	seen := make(map[uint]struct{}, len(items))
	lines := make([]*types.OrderLine, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1 for product %d, got %d: %w", item.ProductID, item.Quantity, apperr.ErrInvalidArgument)
		}
		if _, dup := seen[item.ProductID]; dup {
			return nil, fmt.Errorf("duplicate product %d in payload: %w", item.ProductID, apperr.ErrInvalidArgument)
		}
		seen[item.ProductID] = struct{}{}

		product, err := os.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, &types.OrderLine{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}
	return lines, nil
}

// SetLineQuantity overwrites one line's quantity (not a delta) and
// recomputes the owning order's amount.
func (os *orderService) SetLineQuantity(ctx context.Context, lineID uint, quantity int) (*types.Order, error) {
	return os.BulkSetQuantities(ctx, []QuantityUpdate{{LineID: lineID, Quantity: quantity}})
}

// BulkSetQuantities overwrites quantities on several lines of one order. A
// batch spanning multiple orders is rejected: the caller is updating one
// cart view, and a single owning order keeps the recomputation atomic.
func (os *orderService) BulkSetQuantities(ctx context.Context, updates []QuantityUpdate) (*types.Order, error) {
	if len(updates) == 0 {
		return nil, fmt.Errorf("empty quantity update payload: %w", apperr.ErrInvalidArgument)
	}
	for _, update := range updates {
		if update.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1 for line %d, got %d: %w", update.LineID, update.Quantity, apperr.ErrInvalidArgument)
		}
	}

	first, err := os.lineRepo.GetByID(ctx, nil, updates[0].LineID)
	if err != nil {
		return nil, err
	}
	orderID := first.OrderID

	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		for _, update := range updates {
			line, err := os.lineRepo.GetByID(ctx, tx, update.LineID)
			if err != nil {
				return err
			}
			if line.OrderID != orderID {
				return fmt.Errorf("line %d belongs to order %d, not %d: %w", update.LineID, line.OrderID, orderID, apperr.ErrInvalidArgument)
			}
			if err := os.lineRepo.UpdateQuantity(ctx, tx, update.LineID, update.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveLine deletes the order's line for a product. Deleting nothing is an
// error, not a no-op.
func (os *orderService) RemoveLine(ctx context.Context, orderID, productID uint) (*types.Order, error) {
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		deleted, err := os.lineRepo.DeleteByOrderAndProduct(ctx, tx, orderID, productID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("order %d has no line for product %d: %w", orderID, productID, apperr.ErrNotFound)
		}
		return nil
	})
}

// RemoveAllLines empties the order, dropping its amount to zero. An already
// empty order is rejected the same way RemoveLine rejects a missing line.
func (os *orderService) RemoveAllLines(ctx context.Context, orderID uint) (*types.Order, error) {
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		deleted, err := os.lineRepo.DeleteByOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("order %d has no line items to remove: %w", orderID, apperr.ErrNotFound)
		}
		return nil
	})
}

// keyedMutex hands out one mutex per order id.
type keyedMutex struct {
	locks sync.Map
}

func (km *keyedMutex) lock(key uint) func() {
	v, _ := km.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
