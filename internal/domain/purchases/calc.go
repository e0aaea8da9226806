package purchases

import (
	"github.com/Spok95/smartspend/internal/apperr"
	"github.com/shopspring/decimal"
)

// Column scales of purchase_items.
const (
	QuantityScale = 3
	PriceScale    = 2
)

// Integer digits allowed by NUMERIC(12,3), NUMERIC(12,2) and NUMERIC(18,5).
const (
	QuantityIntDigits = 9
	PriceIntDigits    = 10
	AmountIntDigits   = 13
)

// Exclusive upper bounds matching the digit limits.
var (
	MaxQuantity  = decimal.New(1, QuantityIntDigits)
	MaxUnitPrice = decimal.New(1, PriceIntDigits)
	MaxAmount    = decimal.New(1, AmountIntDigits)
)

// Subtotal is quantity × unit price, exact.
func Subtotal(qty, unitPrice decimal.Decimal) decimal.Decimal {
	return qty.Mul(unitPrice)
}

// Total sums item subtotals.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}

// intDigits is the digit count left of the point, read from coefficient and
// exponent so huge exponents are never expanded.
func intDigits(d decimal.Decimal) int64 {
	n := int64(d.NumDigits()) + int64(d.Exponent())
	if n < 0 {
		return 0
	}
	return n
}

// fracDigits counts significant fractional digits, so 3.50 has one.
// Callers bound the exponent with checkShape first.
func fracDigits(d decimal.Decimal) int32 {
	exp := -d.Exponent()
	if exp <= 0 {
		return 0
	}
	for exp > 0 && d.Equal(d.Truncate(exp-1)) {
		exp--
	}
	return exp
}

// checkShape rejects values too large for the column or with far too many
// fractional digits, without formatting them.
func checkShape(what string, d decimal.Decimal, maxInt int64, scale int32, limit decimal.Decimal) error {
	if intDigits(d) > maxInt {
		return apperr.InvalidArgument("%s must be less than %s", what, limit.String())
	}
	// trailing zeros are at most NumDigits, so this many fractional digits cannot all be zeros
	if int64(-d.Exponent())-int64(d.NumDigits()) > int64(scale) {
		return apperr.InvalidArgument("%s has more than %d decimal places", what, scale)
	}
	return nil
}

func ValidateQuantity(q decimal.Decimal) error {
	if err := checkShape("quantity", q, QuantityIntDigits, QuantityScale, MaxQuantity); err != nil {
		return err
	}
	if !q.IsPositive() {
		return apperr.InvalidArgument("quantity must be > 0, got %s", q.String())
	}
	if fracDigits(q) > QuantityScale {
		return apperr.InvalidArgument("quantity %s has more than %d decimal places", q.String(), QuantityScale)
	}
	return nil
}

func ValidatePrice(p decimal.Decimal) error {
	if err := checkShape("unit price", p, PriceIntDigits, PriceScale, MaxUnitPrice); err != nil {
		return err
	}
	if !p.IsPositive() {
		return apperr.InvalidArgument("unit price must be > 0, got %s", p.String())
	}
	if fracDigits(p) > PriceScale {
		return apperr.InvalidArgument("unit price %s has more than %d decimal places", p.String(), PriceScale)
	}
	return nil
}

// FormatMoney renders an amount with at least PriceScale decimals and never
// drops significant ones: 7 → "7.00", 29.985 → "29.985".
func FormatMoney(d decimal.Decimal) string {
	places := fracDigits(d)
	if places < PriceScale {
		places = PriceScale
	}
	return d.StringFixed(places)
}

// buildItems validates the inputs and returns items with subtotals plus their total.
// Items keep the input order.
func buildItems(in []ItemInput) ([]Item, decimal.Decimal, error) {
	if len(in) == 0 {
		return nil, decimal.Zero, apperr.InvalidArgument("purchase must have at least one item")
	}
	items := make([]Item, 0, len(in))
	for i, it := range in {
		if it.ProductID <= 0 {
			return nil, decimal.Zero, apperr.InvalidArgument("item %d: product_id must be positive", i+1)
		}
		if err := ValidateQuantity(it.Quantity); err != nil {
			return nil, decimal.Zero, apperr.InvalidArgument("item %d: %s", i+1, apperr.Message(err))
		}
		if err := ValidatePrice(it.UnitPrice); err != nil {
			return nil, decimal.Zero, apperr.InvalidArgument("item %d: %s", i+1, apperr.Message(err))
		}
		sub := Subtotal(it.Quantity, it.UnitPrice)
		if intDigits(sub) > AmountIntDigits {
			return nil, decimal.Zero, apperr.InvalidArgument("item %d: subtotal must be less than %s", i+1, MaxAmount.String())
		}
		items = append(items, Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  sub,
		})
	}
	total := Total(items)
	if intDigits(total) > AmountIntDigits {
		return nil, decimal.Zero, apperr.InvalidArgument("purchase total must be less than %s", MaxAmount.String())
	}
	return items, total, nil
}
