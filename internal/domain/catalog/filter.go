package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel value for category and color filters meaning
// "no constraint", kept distinct from the empty string so that view
// dropdowns can round-trip it.
const FilterAll = "All"

// Filter holds the active product filter. Zero values mean "no constraint":
// an empty Category or Color (or the FilterAll sentinel) matches every
// product, nil price bounds are unbounded, and an empty SearchQuery matches
// everything.
type Filter struct {
	Category     string
	Color        string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	DiscountOnly bool
	SearchQuery  string
}

// PriceBound is a patch value for one price bound. The zero value leaves
// the bound untouched; a set bound with a nil Value removes just that
// bound, restoring "unbounded" on that side without clearing the rest of
// the filter.
type PriceBound struct {
	Set   bool
	Value *decimal.Decimal
}

// Bound returns a patch value that sets the bound to v.
func Bound(v decimal.Decimal) PriceBound {
	return PriceBound{Set: true, Value: &v}
}

// Unbound returns a patch value that removes the bound.
func Unbound() PriceBound {
	return PriceBound{Set: true}
}

// FilterPatch is a partial filter update. Only non-nil fields and set
// price bounds are applied, so a patch carrying just a category leaves the
// price bounds and search query untouched.
type FilterPatch struct {
	Category     *string
	Color        *string
	MinPrice     PriceBound
	MaxPrice     PriceBound
	DiscountOnly *bool
	SearchQuery  *string
}

// merge applies the touched fields of the patch onto f.
func (f *Filter) merge(p FilterPatch) {
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.Color != nil {
		f.Color = *p.Color
	}
	if p.MinPrice.Set {
		f.MinPrice = p.MinPrice.Value
	}
	if p.MaxPrice.Set {
		f.MaxPrice = p.MaxPrice.Value
	}
	if p.DiscountOnly != nil {
		f.DiscountOnly = *p.DiscountOnly
	}
	if p.SearchQuery != nil {
		f.SearchQuery = *p.SearchQuery
	}
}

// Apply evaluates the filter over products and returns the matching subset.
// It is pure and stable: input order is preserved and the input slice is
// never modified. All predicates must hold for a product to pass.
func Apply(products []Product, f Filter) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		if matches(&products[i], &f) {
			out = append(out, products[i])
		}
	}
	return out
}

func matches(p *Product, f *Filter) bool {
	if f.Category != "" && f.Category != FilterAll && p.Category != f.Category {
		return false
	}

	price := p.EffectivePrice()
	if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
		return false
	}

	if f.Color != "" && f.Color != FilterAll && !hasColor(p.Colors, f.Color) {
		return false
	}

	if f.DiscountOnly && p.DiscountPrice == nil {
		return false
	}

	if f.SearchQuery != "" && !matchesQuery(p, f.SearchQuery) {
		return false
	}

	return true
}

// hasColor reports whether any of the product's colors contains want as a
// case-insensitive substring, so "blue" matches both "Blue" and "Navy Blue".
func hasColor(colors []string, want string) bool {
	want = strings.ToLower(want)
	for _, c := range colors {
		if strings.Contains(strings.ToLower(c), want) {
			return true
		}
	}
	return false
}

func matchesQuery(p *Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}
