package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// CatalogService handles catalog reads (detail lookups, filter option
// lists) and the validated write path used by ingestion and the admin
// API.
type CatalogService struct {
	products repositories.ProductRepository
	taxonomy repositories.TaxonomyRepository
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, taxonomy repositories.TaxonomyRepository) *CatalogService {
	return &CatalogService{
		products: products,
		taxonomy: taxonomy,
		validate: validator.New(),
	}
}

// ListCategories returns the category filter options, name ascending.
func (s *CatalogService) ListCategories() ([]models.Category, error) {
	return s.taxonomy.ListCategories()
}

// ListLocations returns the location filter options, name ascending.
func (s *CatalogService) ListLocations() ([]models.Location, error) {
	return s.taxonomy.ListLocations()
}

// CreateCategory validates and stores a new category filter option.
func (s *CatalogService) CreateCategory(category *models.Category) error {
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}
	if err := s.validate.Struct(category); err != nil {
		return err
	}
	return s.taxonomy.CreateCategory(category)
}

// CreateLocation validates and stores a new location filter option.
func (s *CatalogService) CreateLocation(location *models.Location) error {
	if location.Slug == "" {
		location.Slug = Slugify(location.Name)
	}
	if err := s.validate.Struct(location); err != nil {
		return err
	}
	return s.taxonomy.CreateLocation(location)
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.products.GetByID(id)
}

// GetProductBySlug retrieves a single product by its URL slug.
func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	return s.products.GetBySlug(slug)
}

// CreateProduct validates and stores a new product. A missing slug is
// derived from the title.
func (s *CatalogService) CreateProduct(product *models.Product) error {
	if product.Slug == "" {
		product.Slug = Slugify(product.Title)
	}
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.products.Create(product)
}

// UpdateProduct validates and persists changes to an existing product.
func (s *CatalogService) UpdateProduct(product *models.Product) error {
	if product.Slug == "" {
		product.Slug = Slugify(product.Title)
	}
	if err := s.validateProduct(product); err != nil {
		return err
	}
	return s.products.Update(product)
}

// UpsertProduct applies an ingestion event: update when the ID already
// exists, create otherwise.
func (s *CatalogService) UpsertProduct(product *models.Product) error {
	if product.ID == "" {
		return s.CreateProduct(product)
	}
	if _, err := s.products.GetByID(product.ID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return s.CreateProduct(product)
		}
		return err
	}
	return s.UpdateProduct(product)
}

// DeleteProduct deletes a product by its ID.
func (s *CatalogService) DeleteProduct(id string) error {
	return s.products.Delete(id)
}

func (s *CatalogService) validateProduct(product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]models.FieldError, 0, len(validationErrors))
			for _, e := range validationErrors {
				fields = append(fields, models.FieldError{
					Field:   e.Field(),
					Message: fmt.Sprintf("failed on the '%s' tag", e.Tag()),
					Code:    e.Tag(),
				})
			}
			return &models.ValidationError{Fields: fields}
		}
		return err
	}
	if !slugPattern.MatchString(product.Slug) {
		return &models.ValidationError{Fields: []models.FieldError{
			{Field: "Slug", Message: "must contain only lowercase letters, digits, and hyphens", Code: "slug"},
		}}
	}
	return nil
}

// Slugify derives a URL-safe slug from free text: lowercase, with runs
// of anything outside [a-z0-9] collapsed to single hyphens.
func Slugify(text string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}
