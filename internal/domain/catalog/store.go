package catalog

// Store holds the immutable product set together with the active filter and
// the derived filtered view. Every filter mutation re-derives the view
// synchronously, so readers always observe a view consistent with the
// current filter.
//
// The store itself is not safe for concurrent use; the owning session
// serializes access.
type Store struct {
	products []Product
	filter   Filter
	filtered []Product
}

// NewStore creates a Store over the given product set. The initial filtered
// view is the full catalog.
func NewStore(products []Product) *Store {
	return &Store{
		products: products,
		filtered: products,
	}
}

// Products returns the full, unfiltered catalog.
func (s *Store) Products() []Product {
	return s.products
}

// Filtered returns the current derived view.
func (s *Store) Filtered() []Product {
	return s.filtered
}

// Filter returns a copy of the active filter.
func (s *Store) Filter() Filter {
	return s.filter
}

// FindByID returns the product with the given id, or nil.
func (s *Store) FindByID(id string) *Product {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i]
		}
	}
	return nil
}

// SetFilter merges the patch into the active filter and re-derives the
// filtered view. Fields absent from the patch keep their current values.
func (s *Store) SetFilter(p FilterPatch) {
	s.filter.merge(p)
	s.filtered = Apply(s.products, s.filter)
}

// SetSearchQuery updates only the search query and re-derives the view.
func (s *Store) SetSearchQuery(query string) {
	s.filter.SearchQuery = query
	s.filtered = Apply(s.products, s.filter)
}

// ClearFilters resets the filter to its zero value; the filtered view
// becomes the full catalog again.
func (s *Store) ClearFilters() {
	s.filter = Filter{}
	s.filtered = s.products
}
