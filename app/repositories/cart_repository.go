package repositories

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angotech/angotech/app/models"
)

// CartRepository persists the authenticated cart realm: one user_carts
// row per (user, product). Writes arrive only through the reconciler's
// debounced scheduler.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Upsert sets the quantity for (user, product), inserting or updating
// the row as needed.
func (r *CartRepository) Upsert(userID uint, productID string, quantity int) error {
	row := models.UserCart{UserID: userID, ProductID: productID, Quantity: quantity}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("cart: upsert user=%d product=%s: %w", userID, productID, err)
	}
	return nil
}

// Delete removes one (user, product) row. Missing rows are not an error.
func (r *CartRepository) Delete(userID uint, productID string) error {
	err := r.db.Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.UserCart{}).Error
	if err != nil {
		return fmt.Errorf("cart: delete user=%d product=%s: %w", userID, productID, err)
	}
	return nil
}

// DeleteAll clears every row for a user.
func (r *CartRepository) DeleteAll(userID uint) error {
	err := r.db.Where("user_id = ?", userID).Delete(&models.UserCart{}).Error
	if err != nil {
		return fmt.Errorf("cart: clear user=%d: %w", userID, err)
	}
	return nil
}

// ListForUser returns all cart rows for a user.
func (r *CartRepository) ListForUser(userID uint) ([]models.UserCart, error) {
	var rows []models.UserCart
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("cart: list user=%d: %w", userID, err)
	}
	return rows, nil
}
