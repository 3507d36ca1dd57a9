package repositories

import (
	"errors"
	"fmt"
	"strings"

	"pasar/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// likeEscaper neutralizes LIKE metacharacters so the keyword is
// matched as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filtered builds the AND-combined predicate for the given params,
// skipping any dimensions named in omit — facet queries use this to
// count "as if" their own filter were not applied. LOWER() comparisons
// keep the behavior identical across SQLite and PostgreSQL. Note that
// SQLite's LOWER() folds ASCII only, so case-insensitivity of the
// keyword match is guaranteed for ASCII input.
func (r *GORMProductRepository) filtered(p models.SearchParams, omit ...string) *gorm.DB {
	skip := make(map[string]bool, len(omit))
	for _, dim := range omit {
		skip[dim] = true
	}

	db := r.db.Model(&models.Product{})
	if p.Query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(p.Query)) + "%"
		db = db.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}
	if p.Category != "" && !skip[DimCategory] {
		db = db.Where("LOWER(category) = LOWER(?)", p.Category)
	}
	if p.Location != "" && !skip[DimLocation] {
		db = db.Where("LOWER(location) = LOWER(?)", p.Location)
	}
	if !skip[DimPrice] {
		if p.MinPrice != nil {
			db = db.Where("price >= ?", *p.MinPrice)
		}
		if p.MaxPrice != nil {
			db = db.Where("price <= ?", *p.MaxPrice)
		}
	}
	return db
}

// Search retrieves one page of matching products, newest first with ID
// ascending as tie-break so pages stay stable across requests.
func (r *GORMProductRepository) Search(p models.SearchParams, offset, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.filtered(p).
		Order("created_at DESC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, &models.DatabaseError{Op: "search products", Cause: err}
	}
	return products, nil
}

// Count returns how many products match the predicate.
func (r *GORMProductRepository) Count(p models.SearchParams) (int64, error) {
	var count int64
	if err := r.filtered(p).Count(&count).Error; err != nil {
		return 0, &models.DatabaseError{Op: "count products", Cause: err}
	}
	return count, nil
}

// CountByCategory groups matches by category, ignoring any active
// category filter but honoring everything else.
func (r *GORMProductRepository) CountByCategory(p models.SearchParams) ([]models.FacetCount, error) {
	return r.countByDimension(p, "category", DimCategory)
}

// CountByLocation groups matches by location, ignoring any active
// location filter but honoring everything else.
func (r *GORMProductRepository) CountByLocation(p models.SearchParams) ([]models.FacetCount, error) {
	return r.countByDimension(p, "location", DimLocation)
}

func (r *GORMProductRepository) countByDimension(p models.SearchParams, column, dim string) ([]models.FacetCount, error) {
	facets := []models.FacetCount{}
	err := r.filtered(p, dim).
		Select(column + " AS name, COUNT(*) AS count").
		Group(column).
		Order("count DESC, name ASC").
		Scan(&facets).Error
	if err != nil {
		return nil, &models.DatabaseError{Op: "count by " + column, Cause: err}
	}
	return facets, nil
}

// PriceBounds reports the min and max price across products matching
// every filter except the price bounds themselves. COALESCE keeps an
// empty match reporting {0, 0} rather than NULL.
func (r *GORMProductRepository) PriceBounds(p models.SearchParams) (models.PriceRange, error) {
	var bounds models.PriceRange
	err := r.filtered(p, DimPrice).
		Select("COALESCE(MIN(price), 0) AS min, COALESCE(MAX(price), 0) AS max").
		Scan(&bounds).Error
	if err != nil {
		return models.PriceRange{}, &models.DatabaseError{Op: "price bounds", Cause: err}
	}
	return bounds, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
		}
		return nil, &models.DatabaseError{Op: "get product by ID", Cause: err}
	}
	return &product, nil
}

// GetBySlug retrieves a single product by its URL slug.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with slug %s: %w", slug, models.ErrNotFound)
		}
		return nil, &models.DatabaseError{Op: "get product by slug", Cause: err}
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return &models.DatabaseError{Op: "create product", Cause: err}
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return &models.DatabaseError{Op: "update product", Cause: res.Error}
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound for an update
		// with no matching row, so we check RowsAffected.
		return fmt.Errorf("product with ID %s for update: %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return &models.DatabaseError{Op: "delete product", Cause: res.Error}
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s for deletion: %w", id, models.ErrNotFound)
	}
	return nil
}
