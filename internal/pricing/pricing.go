// Package pricing computes discounted prices and line totals in fixed-point
// decimal arithmetic.
package pricing

import (
	"github.com/shopspring/decimal"

	"decohogar/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice returns base × (1 − pct/100) rounded to cents.
func DiscountedPrice(base decimal.Decimal, discountPercent int) (decimal.Decimal, error) {
	if discountPercent < 0 || discountPercent > 100 {
		return decimal.Zero, domain.ErrInvalidDiscount
	}
	keep := decimal.NewFromInt(int64(100 - discountPercent))
	return base.Mul(keep).Div(hundred).Round(2), nil
}

// ProductPrice is DiscountedPrice applied to a catalog product.
func ProductPrice(p domain.Product) (decimal.Decimal, error) {
	return DiscountedPrice(p.Precio, p.Descuento)
}

// LineTotal is quantity × unit price.
func LineTotal(unit decimal.Decimal, qty int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// CartTotal sums the snapshotted line totals.
func CartTotal(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.PrecioTotal)
	}
	return sum
}

// OrderTotal sums the frozen order lines.
func OrderTotal(lines []domain.OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.PrecioTotal)
	}
	return sum
}
