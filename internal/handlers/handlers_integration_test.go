package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pasar/internal/handlers"
	"pasar/internal/middleware"
	"pasar/internal/models"
	"pasar/internal/pagination"
	"pasar/internal/repositories"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// searchResponse mirrors the JSON shape of GET /api/v1/products.
type searchResponse struct {
	Items       []models.Product    `json:"items"`
	TotalCount  int64               `json:"total_count"`
	Facets      models.Facets       `json:"facets"`
	Pagination  pagination.Metadata `json:"pagination"`
	PageNumbers []int               `json:"page_numbers"`
	Filters     models.FilterState  `json:"filters"`
}

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, error) {
	t.Helper()

	// Configure Viper for testing
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("test-operator"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash test password: %w", err)
	}

	// Initialize in-memory SQLite database, named per test for isolation.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&models.Product{}, &models.Category{}, &models.Location{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Initialize Repositories
	productRepo := repositories.NewGORMProductRepository(db)
	taxonomyRepo := repositories.NewGORMTaxonomyRepository(db)

	// Initialize Services
	searchService := services.NewSearchService(productRepo)
	catalogService := services.NewCatalogService(productRepo, taxonomyRepo)
	authService := services.NewAuthService(string(passwordHash), jwtSecret)

	// Initialize Handlers
	catalogHandler := handlers.NewCatalogHandler(searchService, catalogService)
	adminHandler := handlers.NewAdminHandler(catalogService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()

	// API Routes
	apiV1 := app.Group("/api/v1")

	catalogHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)

	adminRoutes := apiV1.Group("/admin", middleware.AuthRequired(authService))
	adminHandler.RegisterRoutes(adminRoutes)

	seedProductsForTest(t, catalogService)

	return app, nil
}

// seedProductsForTest populates the catalog for tests.
func seedProductsForTest(t *testing.T, catalog *services.CatalogService) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	products := []models.Product{
		{Title: "Test Laptop", Description: "For testing purposes", Price: 1000.00, Category: "Electronics", Location: "Jakarta", Images: []string{"https://img.example.com/laptop.jpg"}},
		{Title: "Test Monitor", Description: "Another test item", Price: 200.00, Category: "Electronics", Location: "Bandung", Images: []string{"https://img.example.com/monitor.jpg"}},
		{Title: "Test Sofa", Description: "Comfortable enough", Price: 450.00, Category: "Furniture", Location: "Jakarta", Images: []string{"https://img.example.com/sofa.jpg"}},
	}
	for i := range products {
		products[i].Model = gorm.Model{CreatedAt: base.Add(-time.Duration(i) * time.Minute)}
		if err := catalog.CreateProduct(&products[i]); err != nil {
			log.Printf("Failed to seed product %s: %v", products[i].Title, err)
		}
	}
	for _, name := range []string{"Electronics", "Furniture"} {
		category := models.Category{Name: name, Slug: services.Slugify(name)}
		if err := catalog.CreateCategory(&category); err != nil {
			log.Printf("Failed to seed category %s: %v", name, err)
		}
	}
	for _, name := range []string{"Jakarta", "Bandung"} {
		location := models.Location{Name: name, Slug: services.Slugify(name)}
		if err := catalog.CreateLocation(&location); err != nil {
			log.Printf("Failed to seed location %s: %v", name, err)
		}
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func decodeSearch(t *testing.T, resp *http.Response) searchResponse {
	t.Helper()
	defer resp.Body.Close()
	var body searchResponse
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSearchProductsByKeyword(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?q=laptop", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeSearch(t, resp)
	assert.Equal(t, int64(1), body.TotalCount)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, "Test Laptop", body.Items[0].Title)
	assert.Equal(t, "laptop", body.Filters.Query)
}

func TestSearchProductsWithFacets(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?category=Electronics", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeSearch(t, resp)
	assert.Equal(t, int64(2), body.TotalCount)
	// Category facet ignores the active category filter.
	assert.Equal(t, []models.FacetCount{
		{Name: "Electronics", Count: 2},
		{Name: "Furniture", Count: 1},
	}, body.Facets.Categories)
	assert.Equal(t, models.PriceRange{Min: 200, Max: 1000}, body.Facets.PriceRange)
}

func TestSearchProductsInvertedBoundsFallBackToDefaults(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?min=500&max=100&q=laptop", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The whole parameter set is discarded, so all items come back.
	body := decodeSearch(t, resp)
	assert.Equal(t, int64(3), body.TotalCount)
	assert.Empty(t, body.Filters.Query)
}

func TestSearchProductsPaginationMetadata(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?limit=2&page=2", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	body := decodeSearch(t, resp)
	assert.Equal(t, int64(3), body.TotalCount)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.False(t, body.Pagination.HasNextPage)
	assert.True(t, body.Pagination.HasPreviousPage)
	assert.Equal(t, []int{1, 2}, body.PageNumbers)
}

func TestSearchProductsPagePastEndServesLastPage(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/?limit=2&page=99", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	// The items belong to the clamped page, not an empty page 99.
	body := decodeSearch(t, resp)
	assert.Equal(t, int64(3), body.TotalCount)
	assert.Equal(t, 2, body.Pagination.TotalPages)
	assert.Equal(t, 2, body.Pagination.CurrentPage)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, "Test Sofa", body.Items[0].Title)
	assert.Equal(t, 2, body.Filters.Page)
}

func TestGetProductBySlugAndNotFound(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/slug/test-laptop", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()
	assert.Equal(t, "Test Laptop", product.Title)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/no-such-id", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListCategoriesAndLocations(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var categories []models.Category
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
	resp.Body.Close()
	assert.Len(t, categories, 2)
	assert.Equal(t, "Electronics", categories[0].Name)
	assert.Equal(t, "Furniture", categories[1].Name)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var locations []models.Location
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&locations))
	resp.Body.Close()
	assert.Equal(t, "Bandung", locations[0].Name)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Unauthorized Item",
		"description": "should not be created",
		"price":       10.0,
		"category":    "Misc",
		"location":    "Jakarta",
		"images":      []string{"https://img.example.com/x.jpg"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminCreateProductFlow(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	// Exchange the operator password for a token.
	loginBody, _ := json.Marshal(map[string]string{"password": "test-operator"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tokenResp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
	resp.Body.Close()
	assert.NotEmpty(t, tokenResp.Token)

	// Create a product with it.
	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Road Bike",
		"description": "Light aluminium frame",
		"price":       620.0,
		"category":    "Sports",
		"location":    "Surabaya",
		"images":      []string{"https://img.example.com/bike.jpg"},
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenResp.Token)

	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	assert.Equal(t, "road-bike", created.Slug)
	assert.NotEmpty(t, created.ID)

	// It is immediately searchable.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/?q=road+bike", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	body := decodeSearch(t, resp)
	assert.Equal(t, int64(1), body.TotalCount)
}

func TestAdminCreateProductValidation(t *testing.T) {
	app, err := setupApp(t)
	assert.NoError(t, err)

	loginBody, _ := json.Marshal(map[string]string{"password": "test-operator"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var tokenResp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
	resp.Body.Close()

	// Missing title and images.
	payload, _ := json.Marshal(map[string]interface{}{
		"description": "incomplete",
		"price":       10.0,
		"category":    "Misc",
		"location":    "Jakarta",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenResp.Token)

	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
