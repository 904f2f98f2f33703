package promo

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Kind enumerates the supported promo discount strategies.
type Kind string

const (
	// KindPercentage takes a percentage off the order subtotal.
	KindPercentage Kind = "percentage"
	// KindFixed takes a fixed amount off, capped at the subtotal.
	KindFixed Kind = "fixed"
	// KindFreeLowest removes the cost of the cheapest unit in the order.
	KindFreeLowest Kind = "free_lowest"
)

// ErrInvalidCode is returned when a promo code is unknown or the order does
// not satisfy the code's minimum item requirement.
var ErrInvalidCode = errors.New("invalid promo code")

// Rule defines one promo code's discount behaviour and eligibility.
type Rule struct {
	Code        string
	Kind        Kind
	Value       decimal.Decimal
	MinItems    int
	Description string
}

// Discount is a computed discount amount with a display description.
type Discount struct {
	Amount      decimal.Decimal
	Description string
}

// Item is an order line viewed by the discount calculation: unit price is
// the effective (already discounted) product price.
type Item struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

var hundred = decimal.NewFromInt(100)

// Compute calculates the discount the rule yields for the given items.
// It returns ErrInvalidCode when the order does not meet the rule's minimum
// item count.
func Compute(rule *Rule, items []Item) (Discount, error) {
	if rule.MinItems > 0 && totalQuantity(items) < rule.MinItems {
		return Discount{}, ErrInvalidCode
	}

	switch rule.Kind {
	case KindPercentage:
		amount := subtotal(items).Mul(rule.Value).Div(hundred)
		return discount(rule, amount), nil
	case KindFixed:
		amount := decimal.Min(rule.Value, subtotal(items))
		return discount(rule, amount), nil
	case KindFreeLowest:
		return discount(rule, lowestUnitPrice(items)), nil
	default:
		return Discount{}, errors.Errorf("unsupported promo kind: %q", rule.Kind)
	}
}

func discount(rule *Rule, amount decimal.Decimal) Discount {
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return Discount{
		Amount:      amount.Round(2),
		Description: rule.Description,
	}
}

func subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

func totalQuantity(items []Item) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func lowestUnitPrice(items []Item) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	lowest := items[0].Price
	for _, item := range items[1:] {
		if item.Price.LessThan(lowest) {
			lowest = item.Price
		}
	}
	return lowest
}

// normalizeCode canonicalizes user input before lookup.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
