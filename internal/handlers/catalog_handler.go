package handlers

import (
	"errors"
	"log"
	"net/url"

	"pasar/internal/models"
	"pasar/internal/pagination"
	"pasar/internal/params"
	"pasar/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the public catalog HTTP surface: search,
// detail lookups, and the filter option lists.
type CatalogHandler struct {
	searchService  *services.SearchService
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(searchService *services.SearchService, catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		searchService:  searchService,
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleSearchProducts)
	productRoutes.Get("/slug/:slug", h.HandleGetProductBySlug)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	router.Get("/categories", h.HandleListCategories)
	router.Get("/locations", h.HandleListLocations)
}

// HandleSearchProducts runs a filtered, paginated catalog search. The
// query string is the single source of truth for filter state; invalid
// parameters are silently normalized, never rejected.
func (h *CatalogHandler) HandleSearchProducts(c *fiber.Ctx) error {
	p := params.Parse(queryValues(c))

	result, err := h.searchService.Search(p)
	if err != nil {
		log.Printf("Error searching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}

	meta := pagination.Calculate(result.TotalCount, p.Page, p.Limit)
	if meta.CurrentPage != p.Page {
		// A page past the end clamps to the last page; re-fetch so the
		// items agree with the reported metadata.
		p.Page = meta.CurrentPage
		if result, err = h.searchService.Search(p); err != nil {
			log.Printf("Error searching products: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve products",
				"error":   err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"items":        result.Items,
		"total_count":  result.TotalCount,
		"facets":       result.Facets,
		"pagination":   meta,
		"page_numbers": pagination.PageNumbers(meta.CurrentPage, meta.TotalPages, pagination.DefaultMaxVisible),
		"filters":      models.FilterStateFrom(p),
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *CatalogHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.catalogService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleGetProductBySlug retrieves a single product by its URL slug.
func (h *CatalogHandler) HandleGetProductBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	product, err := h.catalogService.GetProductBySlug(slug)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product by slug %s: %v", slug, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleListCategories returns the category filter options.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		log.Printf("Error listing categories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve categories",
			"error":   err.Error(),
		})
	}
	return c.JSON(categories)
}

// HandleListLocations returns the location filter options.
func (h *CatalogHandler) HandleListLocations(c *fiber.Ctx) error {
	locations, err := h.catalogService.ListLocations()
	if err != nil {
		log.Printf("Error listing locations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve locations",
			"error":   err.Error(),
		})
	}
	return c.JSON(locations)
}

// queryValues copies the raw query string into url.Values, preserving
// repeated keys in arrival order.
func queryValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})
	return values
}
