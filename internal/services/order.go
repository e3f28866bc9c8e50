package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/maplecart/storefront-backend/internal/logger"
	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/repos"
	"github.com/maplecart/storefront-backend/internal/types"
)

// LineInput is one entry of a checkout or bulk-add payload.
type LineInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// QuantityUpdate overwrites the quantity of one existing line.
type QuantityUpdate struct {
	LineID   uint `json:"line_id"`
	Quantity int  `json:"quantity"`
}

// OrderService is the order engine: the lifecycle manager (status machine,
// open-cart lookup and creation) plus the line reconciler in reconcile.go.
// Every mutating method returns the post-mutation order with lines resolved
// to product details, so callers can trust the returned amount.
type OrderService interface {
	GetOrders(ctx context.Context, limit int) ([]*types.Order, error)
	GetOrdersByCustomer(ctx context.Context, customerID uint, limit int) ([]*types.Order, error)
	GetOrderByID(ctx context.Context, orderID uint) (*types.Order, error)

	FindOpenOrder(ctx context.Context, customerID uint) (*types.Order, error)
	GetOrCreateOpenOrder(ctx context.Context, customerID uint, email string) (*types.Order, error)
	CreateOrder(ctx context.Context, customerID uint, shipping, billing, email string, items []LineInput) (*types.Order, error)
	PlaceOrder(ctx context.Context, orderID uint, shipping, billing, email string) (*types.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status types.OrderStatus) (*types.Order, error)
	UpdateOrderAddresses(ctx context.Context, orderID uint, shipping, billing string) (*types.Order, error)
	DeleteOrder(ctx context.Context, orderID uint) error

	AddToCart(ctx context.Context, customerID uint, email string, productID uint, quantityDelta int) (*types.Order, error)
	AddOrMergeLine(ctx context.Context, orderID, productID uint, quantityDelta int) (*types.Order, error)
	BulkAddLines(ctx context.Context, orderID uint, items []LineInput) (*types.Order, error)
	SetLineQuantity(ctx context.Context, lineID uint, quantity int) (*types.Order, error)
	BulkSetQuantities(ctx context.Context, updates []QuantityUpdate) (*types.Order, error)
	RemoveLine(ctx context.Context, orderID, productID uint) (*types.Order, error)
	RemoveAllLines(ctx context.Context, orderID uint) (*types.Order, error)
}

type orderService struct {
	db          *gorm.DB
	log         *logger.Logger
	orderRepo   repos.OrderRepo
	lineRepo    repos.OrderLineRepo
	userRepo    repos.UserRepo
	catalog     CatalogService
	orderLocks  keyedMutex
	createGroup singleflight.Group
}

func NewOrderService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo, lineRepo repos.OrderLineRepo, userRepo repos.UserRepo, catalog CatalogService) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{
		db:        db,
		log:       serviceLog,
		orderRepo: orderRepo,
		lineRepo:  lineRepo,
		userRepo:  userRepo,
		catalog:   catalog,
	}
}

func (os *orderService) GetOrders(ctx context.Context, limit int) ([]*types.Order, error) {
	return os.orderRepo.List(ctx, nil, normalizeLimit(limit))
}

func (os *orderService) GetOrdersByCustomer(ctx context.Context, customerID uint, limit int) ([]*types.Order, error) {
	return os.orderRepo.ListByCustomer(ctx, nil, customerID, normalizeLimit(limit))
}

func (os *orderService) GetOrderByID(ctx context.Context, orderID uint) (*types.Order, error) {
	return os.orderRepo.GetByID(ctx, nil, orderID)
}

func (os *orderService) FindOpenOrder(ctx context.Context, customerID uint) (*types.Order, error) {
	return os.orderRepo.FindOpenByCustomer(ctx, nil, customerID)
}

// GetOrCreateOpenOrder returns the customer's open cart, creating it when
// none exists. Concurrent calls for one customer are collapsed through a
// singleflight group; the partial unique index on (customer_id, status=open)
// backs the same invariant across processes, and a create that loses such a
// race falls back to re-reading the winner's order.
func (os *orderService) GetOrCreateOpenOrder(ctx context.Context, customerID uint, email string) (*types.Order, error) {
	if _, err := os.userRepo.GetByID(ctx, nil, customerID); err != nil {
		return nil, err
	}

	key := strconv.FormatUint(uint64(customerID), 10)
	v, err, _ := os.createGroup.Do(key, func() (interface{}, error) {
		existing, err := os.orderRepo.FindOpenByCustomer(ctx, nil, customerID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}

		order := &types.Order{
			CustomerID: customerID,
			OrderEmail: strings.TrimSpace(email),
			Status:     types.StatusOpen,
			Amount:     decimal.Zero,
		}
		if _, cerr := os.orderRepo.Create(ctx, nil, order); cerr != nil {
			// Lost the cross-process race on the unique open index.
			if winner, rerr := os.orderRepo.FindOpenByCustomer(ctx, nil, customerID); rerr == nil {
				os.log.Warn("Open order creation raced, returning existing order", "customer_id", customerID, "order_id", winner.ID)
				return winner, nil
			}
			return nil, fmt.Errorf("create open order: %w", cerr)
		}
		return os.orderRepo.GetByID(ctx, nil, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Order), nil
}

// CreateOrder builds a placed order from a full checkout payload. The whole
// payload is validated against the catalog before anything is written; a
// missing product rejects the batch and no partial order is left behind.
func (os *orderService) CreateOrder(ctx context.Context, customerID uint, shipping, billing, email string, items []LineInput) (*types.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("order requires at least one line item: %w", apperr.ErrInvalidArgument)
	}
	if _, err := os.userRepo.GetByID(ctx, nil, customerID); err != nil {
		return nil, err
	}

	lines, err := os.buildLines(ctx, items)
	if err != nil {
		return nil, err
	}
	amount, err := ComputeOrderAmount(derefLines(lines))
	if err != nil {
		return nil, err
	}

	var out *types.Order
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := &types.Order{
			CustomerID:      customerID,
			ShippingAddress: shipping,
			BillingAddress:  billing,
			OrderEmail:      strings.TrimSpace(email),
			Status:          types.StatusPlaced,
			Amount:          amount,
		}
		if _, err := os.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, line := range lines {
			line.OrderID = order.ID
		}
		if _, err := os.lineRepo.Create(ctx, tx, lines); err != nil {
			return fmt.Errorf("create order lines: %w", err)
		}
		created, err := os.orderRepo.GetByID(ctx, tx, order.ID)
		if err != nil {
			return err
		}
		out = created
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// PlaceOrder is the open -> placed transition: checkout of a cart. Addresses
// and the contact email are filled in only where the order has none yet.
func (os *orderService) PlaceOrder(ctx context.Context, orderID uint, shipping, billing, email string) (*types.Order, error) {
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		if order.Status != types.StatusOpen {
			return fmt.Errorf("order %d is %s, only open orders can be placed: %w", orderID, order.Status, apperr.ErrInvalidArgument)
		}
		if len(order.Lines) == 0 {
			return fmt.Errorf("order %d has no line items: %w", orderID, apperr.ErrInvalidArgument)
		}
		updates := map[string]any{"status": types.StatusPlaced}
		if order.ShippingAddress == "" && shipping != "" {
			updates["shipping_address"] = shipping
		}
		if order.BillingAddress == "" && billing != "" {
			updates["billing_address"] = billing
		}
		if order.OrderEmail == "" && email != "" {
			updates["order_email"] = strings.TrimSpace(email)
		}
		return os.orderRepo.Update(ctx, tx, orderID, updates)
	})
}

// canTransition encodes the monotonic status machine. Nothing leaves a
// terminal state and nothing returns to open.
func canTransition(from, to types.OrderStatus) bool {
	switch from {
	case types.StatusOpen:
		return to == types.StatusPlaced
	case types.StatusPlaced:
		return to == types.StatusFulfilled || to == types.StatusCancelled
	default:
		return false
	}
}

func (os *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, status types.OrderStatus) (*types.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown order status %q: %w", status, apperr.ErrInvalidArgument)
	}
	return os.reconcile(ctx, orderID, func(ctx context.Context, tx *gorm.DB, order *types.Order) error {
		if order.Status == status {
			return nil
		}
		if !canTransition(order.Status, status) {
			return fmt.Errorf("order %d cannot move from %s to %s: %w", orderID, order.Status, status, apperr.ErrInvalidArgument)
		}
		if status == types.StatusPlaced && len(order.Lines) == 0 {
			return fmt.Errorf("order %d has no line items: %w", orderID, apperr.ErrInvalidArgument)
		}
		return os.orderRepo.Update(ctx, tx, orderID, map[string]any{"status": status})
	})
}

func (os *orderService) UpdateOrderAddresses(ctx context.Context, orderID uint, shipping, billing string) (*types.Order, error) {
	if shipping == "" && billing == "" {
		return nil, fmt.Errorf("no address updates provided: %w", apperr.ErrInvalidArgument)
	}
	updates := map[string]any{}
	if shipping != "" {
		updates["shipping_address"] = shipping
	}
	if billing != "" {
		updates["billing_address"] = billing
	}
	var out *types.Order
	if err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := os.orderRepo.Update(ctx, tx, orderID, updates); err != nil {
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

func (os *orderService) DeleteOrder(ctx context.Context, orderID uint) error {
	unlock := os.orderLocks.lock(orderID)
	defer unlock()
	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := os.lineRepo.DeleteByOrder(ctx, tx, orderID); err != nil {
			return err
		}
		return os.orderRepo.Delete(ctx, tx, orderID)
	})
}

// AddToCart is the customer-facing entry point: locate or create the open
// order, then hand the line change to the reconciler. The reconciler itself
// never creates orders.
func (os *orderService) AddToCart(ctx context.Context, customerID uint, email string, productID uint, quantityDelta int) (*types.Order, error) {
	cart, err := os.GetOrCreateOpenOrder(ctx, customerID, email)
	if err != nil {
		return nil, err
	}
	return os.AddOrMergeLine(ctx, cart.ID, productID, quantityDelta)
}

func derefLines(lines []*types.OrderLine) []types.OrderLine {
	out := make([]types.OrderLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, *line)
	}
	return out
}
