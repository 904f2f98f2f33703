package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func testProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Red Sweater",
			Description: "Cozy knit sweater",
			Price:       dec("100"),
			// Effective price 80.
			DiscountPrice: decPtr("80"),
			Category:      "Sweaters",
			Colors:        []string{"Red", "Burgundy"},
			Images:        []string{"red.jpg"},
		},
		{
			ID:          "2",
			Name:        "Denim Jacket",
			Description: "Classic blue denim",
			Price:       dec("200"),
			Category:    "Jackets",
			Colors:      []string{"Blue", "Light Blue"},
			Images:      []string{"denim.jpg"},
		},
		{
			ID:            "3",
			Name:          "Wool Scarf",
			Description:   "Warm accessory for winter",
			Price:         dec("150"),
			DiscountPrice: decPtr("120"),
			Category:      "Accessories",
			Colors:        []string{"Navy Blue"},
			Images:        []string{"scarf.jpg"},
		},
	}
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply_EmptyFilterMatchesAll(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{})

	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestApply_Category(t *testing.T) {
	products := testProducts()

	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"exact match", "Sweaters", []string{"1"}},
		{"all sentinel matches everything", FilterAll, []string{"1", "2", "3"}},
		{"no match", "Shoes", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(products, Filter{Category: tt.category})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_PriceRangeUsesEffectivePrice(t *testing.T) {
	// Effective prices: 80, 200, 120. Only the 120 product is in range.
	products := testProducts()

	got := Apply(products, Filter{
		MinPrice: decPtr("100"),
		MaxPrice: decPtr("150"),
	})

	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_PriceBoundsInclusive(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{
		MinPrice: decPtr("80"),
		MaxPrice: decPtr("80"),
	})

	assert.Equal(t, []string{"1"}, ids(got))
}

func TestApply_NilMaxPriceUnbounded(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{MinPrice: decPtr("100")})

	assert.Equal(t, []string{"2", "3"}, ids(got))
}

func TestApply_ColorSubstringCaseInsensitive(t *testing.T) {
	products := testProducts()

	// "blue" matches "Blue", "Light Blue" and "Navy Blue".
	got := Apply(products, Filter{Color: "blue"})
	assert.Equal(t, []string{"2", "3"}, ids(got))

	got = Apply(products, Filter{Color: FilterAll})
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestApply_DiscountOnly(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{DiscountOnly: true})

	assert.Equal(t, []string{"1", "3"}, ids(got))
}

func TestApply_SearchQuery(t *testing.T) {
	products := testProducts()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"matches name case-insensitive", "SWEATER", []string{"1"}},
		{"matches description", "winter", []string{"3"}},
		{"matches category", "jacket", []string{"2"}},
		{"no match", "sneaker", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(products, Filter{SearchQuery: tt.query})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApply_AllPredicatesAND(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{
		Category:     "Accessories",
		Color:        "navy",
		DiscountOnly: true,
		SearchQuery:  "warm",
	})

	assert.Equal(t, []string{"3"}, ids(got))
}

func TestApply_Idempotent(t *testing.T) {
	products := testProducts()
	f := Filter{Color: "blue", MinPrice: decPtr("100")}

	once := Apply(products, f)
	twice := Apply(once, f)

	assert.Equal(t, once, twice)
}

func TestApply_PreservesOrderAndInput(t *testing.T) {
	products := testProducts()

	got := Apply(products, Filter{DiscountOnly: true})

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	// Input untouched.
	assert.Equal(t, []string{"1", "2", "3"}, ids(products))
}
