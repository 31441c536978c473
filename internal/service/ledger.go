package service

import (
	"github.com/shopspring/decimal"

	"cosmeticpos-backend/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)

	vipSpend      = decimal.NewFromInt(2_000_000)
	frequentSpend = decimal.NewFromInt(1_000_000)
)

// moneyPlaces is the precision stored for computed amounts.
const moneyPlaces = 2

// PriceLine computes subtotal, tax and total for one cart line. Tax rates
// are percentages.
func PriceLine(unitPrice decimal.Decimal, qty int, taxable bool, rate decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = unitPrice.Mul(decimal.NewFromInt(int64(qty)))
	tax = decimal.Zero
	if taxable {
		tax = subtotal.Mul(rate).Div(hundred).Round(moneyPlaces)
	}
	return subtotal, tax, subtotal.Add(tax)
}

// Totals is the sale-level aggregate of its lines.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountValue decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
}

// SumSale aggregates priced lines. Tax is summed on the pre-discount line
// subtotals.
func SumSale(items []domain.SaleItem, discountPct decimal.Decimal) Totals {
	t := Totals{Subtotal: decimal.Zero, TaxTotal: decimal.Zero}
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.Subtotal)
		t.TaxTotal = t.TaxTotal.Add(it.Tax)
	}
	t.DiscountValue = t.Subtotal.Mul(discountPct).Div(hundred).Round(moneyPlaces)
	t.Total = t.Subtotal.Sub(t.DiscountValue).Add(t.TaxTotal)
	return t
}

// ClassifyClient maps cumulative purchases and spend to a tier.
func ClassifyClient(purchases int, spent decimal.Decimal) domain.ClientTier {
	switch {
	case purchases >= 20 && spent.GreaterThanOrEqual(vipSpend):
		return domain.TierVIP
	case purchases >= 10 && spent.GreaterThanOrEqual(frequentSpend):
		return domain.TierFrequent
	case purchases >= 3:
		return domain.TierOccasional
	default:
		return domain.TierNew
	}
}
