package services

import (
	"sync"

	"pasar/internal/models"
	"pasar/internal/repositories"
)

// SearchService composes one search call: the paged item fetch, the
// total count, and the three facet reads. It holds no state beyond its
// repository.
type SearchService struct {
	repo repositories.ProductRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(repo repositories.ProductRepository) *SearchService {
	return &SearchService{
		repo: repo,
	}
}

// Search runs the five underlying reads concurrently and joins them
// into one SearchResult. The reads are independent queries over the
// same predicate family, so there is no ordering constraint between
// them; a failure in any one aborts the whole call — facets are never
// returned without items, and vice versa.
func (s *SearchService) Search(p models.SearchParams) (*models.SearchResult, error) {
	offset := (p.Page - 1) * p.Limit

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	result := &models.SearchResult{}

	run := func(task func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	run(func() error {
		items, err := s.repo.Search(p, offset, p.Limit)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Items = items
		mu.Unlock()
		return nil
	})

	run(func() error {
		total, err := s.repo.Count(p)
		if err != nil {
			return err
		}
		mu.Lock()
		result.TotalCount = total
		mu.Unlock()
		return nil
	})

	run(func() error {
		categories, err := s.repo.CountByCategory(p)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Facets.Categories = categories
		mu.Unlock()
		return nil
	})

	run(func() error {
		locations, err := s.repo.CountByLocation(p)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Facets.Locations = locations
		mu.Unlock()
		return nil
	})

	run(func() error {
		bounds, err := s.repo.PriceBounds(p)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Facets.PriceRange = bounds
		mu.Unlock()
		return nil
	})

	wg.Wait()

	if len(errs) > 0 {
		return nil, &models.SearchError{Cause: errs[0]}
	}

	if result.Items == nil {
		result.Items = []models.Product{}
	}
	if result.Facets.Categories == nil {
		result.Facets.Categories = []models.FacetCount{}
	}
	if result.Facets.Locations == nil {
		result.Facets.Locations = []models.FacetCount{}
	}
	return result, nil
}
