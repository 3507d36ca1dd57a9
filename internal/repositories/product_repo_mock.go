package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"pasar/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It applies the same predicate semantics as the
// GORM implementation, which makes it the reference oracle in service
// tests.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// matches evaluates the filter predicate against one product, skipping
// dimensions named in omit.
func matches(p models.SearchParams, product models.Product, omit ...string) bool {
	skip := make(map[string]bool, len(omit))
	for _, dim := range omit {
		skip[dim] = true
	}

	if p.Query != "" {
		// strings.ToLower folds the full Unicode range, while SQLite's
		// LOWER() folds ASCII only. Parity between the two backends
		// holds for ASCII keywords.
		q := strings.ToLower(p.Query)
		if !strings.Contains(strings.ToLower(product.Title), q) &&
			!strings.Contains(strings.ToLower(product.Description), q) {
			return false
		}
	}
	if p.Category != "" && !skip[DimCategory] &&
		!strings.EqualFold(p.Category, product.Category) {
		return false
	}
	if p.Location != "" && !skip[DimLocation] &&
		!strings.EqualFold(p.Location, product.Location) {
		return false
	}
	if !skip[DimPrice] {
		if p.MinPrice != nil && product.Price < *p.MinPrice {
			return false
		}
		if p.MaxPrice != nil && product.Price > *p.MaxPrice {
			return false
		}
	}
	return true
}

// matching returns every product satisfying the predicate, ordered
// newest first with ID ascending as tie-break.
func (r *MockProductRepository) matching(p models.SearchParams, omit ...string) []models.Product {
	result := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		if matches(p, product, omit...) {
			result = append(result, product)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Search returns one page of matching products.
func (r *MockProductRepository) Search(p models.SearchParams, offset, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.matching(p)
	if offset >= len(all) {
		return []models.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Count returns the number of matching products.
func (r *MockProductRepository) Count(p models.SearchParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.matching(p))), nil
}

// CountByCategory groups matches by category, ignoring any active
// category filter.
func (r *MockProductRepository) CountByCategory(p models.SearchParams) ([]models.FacetCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.countByDimension(p, DimCategory, func(product models.Product) string {
		return product.Category
	}), nil
}

// CountByLocation groups matches by location, ignoring any active
// location filter.
func (r *MockProductRepository) CountByLocation(p models.SearchParams) ([]models.FacetCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.countByDimension(p, DimLocation, func(product models.Product) string {
		return product.Location
	}), nil
}

func (r *MockProductRepository) countByDimension(p models.SearchParams, dim string, value func(models.Product) string) []models.FacetCount {
	counts := make(map[string]int64)
	for _, product := range r.matching(p, dim) {
		counts[value(product)]++
	}

	facets := make([]models.FacetCount, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, models.FacetCount{Name: name, Count: count})
	}
	// Count descending, name ascending on ties.
	sort.Slice(facets, func(i, j int) bool {
		if facets[i].Count != facets[j].Count {
			return facets[i].Count > facets[j].Count
		}
		return facets[i].Name < facets[j].Name
	})
	return facets
}

// PriceBounds reports min/max price across matches with the price
// bounds omitted; {0, 0} when nothing matches.
func (r *MockProductRepository) PriceBounds(p models.SearchParams) (models.PriceRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.matching(p, DimPrice)
	if len(all) == 0 {
		return models.PriceRange{}, nil
	}
	bounds := models.PriceRange{Min: all[0].Price, Max: all[0].Price}
	for _, product := range all[1:] {
		if product.Price < bounds.Min {
			bounds.Min = product.Price
		}
		if product.Price > bounds.Max {
			bounds.Max = product.Price
		}
	}
	return bounds, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, models.ErrNotFound)
	}
	return &product, nil
}

// GetBySlug returns a product by its URL slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, product := range r.products {
		if product.Slug == slug {
			p := product
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s: %w", slug, models.ErrNotFound)
}

// Create adds a new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s for update: %w", product.ID, models.ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %s for deletion: %w", id, models.ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
