package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a single catalog item. Products are loaded once at
// startup and never mutated afterwards; every consumer holds read-only
// references into the store's slice.
type Product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Category      string
	Colors        []string
	Sizes         []string
	Images        []string
	InStock       bool
	Featured      bool
	Rating        float64
	Reviews       int
}

// EffectivePrice returns the discounted price when one is set, otherwise
// the base price. All cart and filter arithmetic uses this value.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
