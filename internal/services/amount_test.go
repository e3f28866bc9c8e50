package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperr "github.com/maplecart/storefront-backend/internal/pkg/errors"
	"github.com/maplecart/storefront-backend/internal/types"
)

func line(quantity int, unitPrice string) types.OrderLine {
	return types.OrderLine{Quantity: quantity, UnitPrice: decimal.RequireFromString(unitPrice)}
}

func TestComputeOrderAmountEmpty(t *testing.T) {
	amount, err := ComputeOrderAmount(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.IsZero() {
		t.Fatalf("want zero, got %s", amount)
	}
}

func TestComputeOrderAmountSums(t *testing.T) {
	amount, err := ComputeOrderAmount([]types.OrderLine{
		line(2, "10.00"),
		line(1, "4.50"),
		line(3, "0.10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := decimal.RequireFromString("24.80"); !amount.Equal(want) {
		t.Fatalf("want=%s got=%s", want, amount)
	}
}

func TestComputeOrderAmountZeroPriceLine(t *testing.T) {
	amount, err := ComputeOrderAmount([]types.OrderLine{line(5, "0.00")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !amount.IsZero() {
		t.Fatalf("want zero, got %s", amount)
	}
}

func TestComputeOrderAmountRejectsBadLines(t *testing.T) {
	cases := []struct {
		name  string
		lines []types.OrderLine
	}{
		{"zero quantity", []types.OrderLine{line(0, "10.00")}},
		{"negative quantity", []types.OrderLine{line(-3, "10.00")}},
		{"negative price", []types.OrderLine{line(1, "-0.01")}},
		{"bad line after good", []types.OrderLine{line(2, "10.00"), line(0, "1.00")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeOrderAmount(tc.lines); !errors.Is(err, apperr.ErrCalculation) {
				t.Fatalf("want ErrCalculation, got %v", err)
			}
		})
	}
}
