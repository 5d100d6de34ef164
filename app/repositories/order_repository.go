package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/angotech/angotech/app/models"
)

// OrderRepository persists the two-step order write: header first,
// then line items, each call separate so the checkout service can
// compensate when the second step fails.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateHeader inserts the order row without its items.
func (r *OrderRepository) CreateHeader(order *models.Order) error {
	items := order.Items
	order.Items = nil
	err := r.db.Create(order).Error
	order.Items = items
	if err != nil {
		return fmt.Errorf("orders: create header: %w", err)
	}
	return nil
}

// CreateItems inserts the line items for an already-written header.
func (r *OrderRepository) CreateItems(orderID string, items []models.OrderItem) error {
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.Create(&items).Error; err != nil {
		return fmt.Errorf("orders: create items for %s: %w", orderID, err)
	}
	return nil
}

// DeleteHeader removes an order header. Used as the best-effort
// compensating action when line-item insertion fails.
func (r *OrderRepository) DeleteHeader(orderID string) error {
	if err := r.db.Delete(&models.Order{}, "id = ?", orderID).Error; err != nil {
		return fmt.Errorf("orders: delete header %s: %w", orderID, err)
	}
	return nil
}

// Find returns one order with its items.
func (r *OrderRepository) Find(orderID string) (models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").First(&order, "id = ?", orderID).Error
	if err != nil {
		return models.Order{}, fmt.Errorf("orders: find %s: %w", orderID, err)
	}
	return order, nil
}

// ListForUser returns a user's orders with items, newest first.
func (r *OrderRepository) ListForUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("orders: list user=%d: %w", userID, err)
	}
	return orders, nil
}
