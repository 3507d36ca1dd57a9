package repositories

import (
	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTaxonomyRepository is a GORM implementation of TaxonomyRepository.
type GORMTaxonomyRepository struct {
	db *gorm.DB
}

// NewGORMTaxonomyRepository creates a new instance of GORMTaxonomyRepository.
func NewGORMTaxonomyRepository(db *gorm.DB) *GORMTaxonomyRepository {
	return &GORMTaxonomyRepository{
		db: db,
	}
}

// ListCategories returns every category sorted by name ascending.
func (r *GORMTaxonomyRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, &models.DatabaseError{Op: "list categories", Cause: err}
	}
	return categories, nil
}

// ListLocations returns every location sorted by name ascending.
func (r *GORMTaxonomyRepository) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	if err := r.db.Order("name ASC").Find(&locations).Error; err != nil {
		return nil, &models.DatabaseError{Op: "list locations", Cause: err}
	}
	return locations, nil
}

// CreateCategory inserts a new category option.
func (r *GORMTaxonomyRepository) CreateCategory(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if err := r.db.Create(category).Error; err != nil {
		return &models.DatabaseError{Op: "create category", Cause: err}
	}
	return nil
}

// CreateLocation inserts a new location option.
func (r *GORMTaxonomyRepository) CreateLocation(location *models.Location) error {
	if location.ID == "" {
		location.ID = uuid.New().String()
	}
	if err := r.db.Create(location).Error; err != nil {
		return &models.DatabaseError{Op: "create location", Cause: err}
	}
	return nil
}
