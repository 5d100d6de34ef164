package services

import (
	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/pkg/collection"
	"github.com/angotech/angotech/pkg/logger"
)

// OrderService serves order history. Line items carry their own
// snapshot of name, image and category from purchase time; when the
// product still exists in the catalogue its current presentation wins,
// otherwise the snapshot is shown as-is.
type OrderService struct {
	repo    *repositories.OrderRepository
	catalog *CatalogService
}

func NewOrderService(repo *repositories.OrderRepository, catalog *CatalogService) *OrderService {
	return &OrderService{repo: repo, catalog: catalog}
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(userID uint) ([]models.Order, error) {
	orders, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	products, err := s.catalog.All()
	if err != nil {
		// History still renders from the purchase-time snapshots.
		logger.Warn("orders: catalog unavailable, serving snapshots", "error", err)
		return orders, nil
	}
	byID := collection.KeyBy(products, func(p models.Product) string { return p.ID })

	for i := range orders {
		for j := range orders[i].Items {
			item := &orders[i].Items[j]
			if product, ok := byID[item.ProductID]; ok {
				item.Name = product.Name
				item.ImageURL = product.FirstImage()
				item.Category = product.Category
			}
		}
	}
	return orders, nil
}

// Find loads a single order with its items.
func (s *OrderService) Find(id string) (models.Order, error) {
	return s.repo.Find(id)
}
