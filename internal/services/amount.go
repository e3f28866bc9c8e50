package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

// ComputeOrderAmount derives an order's monetary amount from its full line
// set. It is pure: no I/O, deterministic, and safe to call repeatedly during
// reconciliation. An empty line set yields zero.
//
// A corrupt line (quantity below 1 or a negative unit price) is surfaced as
// ErrCalculation instead of being coerced, so a bad row can never silently
// bend the stored amount.
func ComputeOrderAmount(lines []types.OrderLine) (decimal.Decimal, error) {
	total := decimal.Zero
	for i := range lines {
		line := &lines[i]
		if line.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("line %d has quantity %d: %w", line.ID, line.Quantity, apperr.ErrCalculation)
		}
		if line.UnitPrice.IsNegative() {
			return decimal.Zero, fmt.Errorf("line %d has negative unit price: %w", line.ID, apperr.ErrCalculation)
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}
