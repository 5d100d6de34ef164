package services

import (
	"time"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/pkg/cache"
	"github.com/angotech/angotech/pkg/collection"
	"github.com/angotech/angotech/pkg/logger"
)

const (
	catalogCacheKey = "catalog:all"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogService serves the product catalogue with a Redis read-through
// cache on the full listing. Every admin mutation invalidates the
// listing so shoppers never see a product that no longer exists.
type CatalogService struct {
	repo *repositories.ProductRepository
}

func NewCatalogService(repo *repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// All returns the whole catalogue, newest first, reviews included.
func (s *CatalogService) All() ([]models.Product, error) {
	var products []models.Product
	if cache.Get(catalogCacheKey, &products) {
		return products, nil
	}

	products, err := s.repo.All()
	if err != nil {
		return nil, err
	}
	if err := cache.Set(catalogCacheKey, products, catalogCacheTTL); err != nil {
		logger.Warn("catalog: cache write failed", "error", err)
	}
	return products, nil
}

// ByCategory filters the cached listing rather than hitting the
// database per category.
func (s *CatalogService) ByCategory(category string) ([]models.Product, error) {
	products, err := s.All()
	if err != nil {
		return nil, err
	}
	return collection.Filter(products, func(p models.Product) bool {
		return p.Category == category
	}), nil
}

// Categories lists the distinct categories present in the catalogue.
func (s *CatalogService) Categories() ([]string, error) {
	products, err := s.All()
	if err != nil {
		return nil, err
	}
	return collection.Unique(collection.Map(products, func(p models.Product) string {
		return p.Category
	})), nil
}

// Find loads a single product with its reviews.
func (s *CatalogService) Find(id string) (models.Product, error) {
	return s.repo.Find(id)
}

// Create adds a product and invalidates the listing cache.
func (s *CatalogService) Create(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Update persists product changes and invalidates the listing cache.
func (s *CatalogService) Update(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Delete removes a product and its reviews.
func (s *CatalogService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AddReview attaches a review to a product.
func (s *CatalogService) AddReview(review *models.Review) error {
	if err := s.repo.AddReview(review); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CatalogService) invalidate() {
	if err := cache.Del(catalogCacheKey); err != nil {
		logger.Warn("catalog: cache invalidation failed", "error", err)
	}
}
