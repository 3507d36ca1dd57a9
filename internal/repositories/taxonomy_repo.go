package repositories

import "pasar/internal/models"

// TaxonomyRepository defines the interface for the category and
// location reference lists that feed the filter UI. Listings are
// ordered by name ascending.
type TaxonomyRepository interface {
	ListCategories() ([]models.Category, error)
	ListLocations() ([]models.Location, error)
	CreateCategory(category *models.Category) error
	CreateLocation(location *models.Location) error
}
