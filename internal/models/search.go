package models

// SearchParams is the validated, bounded representation of a
// filter+pagination request. Empty strings mean "no filter"; nil price
// bounds mean "no bound". Values are always in range once they leave
// the params package.
type SearchParams struct {
	Query    string   `json:"q" validate:"max=200"`
	Category string   `json:"category" validate:"max=100"`
	Location string   `json:"location" validate:"max=100"`
	MinPrice *float64 `json:"min" validate:"omitempty,gte=0,lte=1000000"`
	MaxPrice *float64 `json:"max" validate:"omitempty,gte=0,lte=1000000"`
	Page     int      `json:"page" validate:"gte=1,lte=1000"`
	Limit    int      `json:"limit" validate:"gte=1,lte=100"`
}

// DefaultSearchParams returns the hard default: first page, twenty
// items, no filters.
func DefaultSearchParams() SearchParams {
	return SearchParams{Page: 1, Limit: 20}
}

// FacetCount is one group in a facet: a dimension value and how many
// matching products carry it.
type FacetCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// PriceRange holds the min and max price across a set of matching
// products. Both are zero when nothing matches.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Facets groups the per-dimension counts and the price bounds for the
// current filter context.
type Facets struct {
	Categories []FacetCount `json:"categories"`
	Locations  []FacetCount `json:"locations"`
	PriceRange PriceRange   `json:"price_range"`
}

// SearchResult is the composed outcome of one search call.
type SearchResult struct {
	Items      []Product `json:"items"`
	TotalCount int64     `json:"total_count"`
	Facets     Facets    `json:"facets"`
}

// FilterState mirrors SearchParams for the presentation layer, with
// empty-string/zero defaults instead of optionals. It is a projection
// of the URL query string, never a separate source of truth.
type FilterState struct {
	Query    string  `json:"q"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	MinPrice float64 `json:"min"`
	MaxPrice float64 `json:"max"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

// FilterStateFrom projects validated params into the UI-facing shape.
func FilterStateFrom(p SearchParams) FilterState {
	state := FilterState{
		Query:    p.Query,
		Category: p.Category,
		Location: p.Location,
		Page:     p.Page,
		Limit:    p.Limit,
	}
	if p.MinPrice != nil {
		state.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		state.MaxPrice = *p.MaxPrice
	}
	return state
}
