package repositories

import (
	"pasar/internal/models"
)

// Filter dimensions that facet queries omit from the predicate.
const (
	DimCategory = "category"
	DimLocation = "location"
	DimPrice    = "price"
)

// ProductRepository defines the interface for catalog data access.
// The read methods all interpret models.SearchParams with the same
// predicate semantics: keyword as case-insensitive substring of title
// or description, case-insensitive category/location equality,
// inclusive price bounds, all supplied dimensions combined with AND.
type ProductRepository interface {
	// Search returns one page of matching products ordered by
	// created_at descending, ID ascending as tie-break.
	Search(p models.SearchParams, offset, limit int) ([]models.Product, error)
	// Count returns the total number of matching products.
	Count(p models.SearchParams) (int64, error)
	// CountByCategory counts matches per category with the category
	// dimension itself omitted from the predicate, ordered by count
	// descending then name ascending.
	CountByCategory(p models.SearchParams) ([]models.FacetCount, error)
	// CountByLocation mirrors CountByCategory for locations.
	CountByLocation(p models.SearchParams) ([]models.FacetCount, error)
	// PriceBounds reports min/max price over matches with both price
	// bounds omitted. Both zero when nothing matches.
	PriceBounds(p models.SearchParams) (models.PriceRange, error)

	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
