package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/angotech/angotech/app/models"
)

// ProductRepository handles database operations for the catalogue.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// All returns the catalogue ordered newest first.
func (r *ProductRepository) All() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Reviews").Order("created_at DESC").Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return products, nil
}

// ByCategory returns products in one category, newest first.
func (r *ProductRepository) ByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Reviews").
		Where("category = ?", category).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("products: list category %q: %w", category, err)
	}
	return products, nil
}

// Find looks up one product with its reviews.
func (r *ProductRepository) Find(id string) (models.Product, error) {
	var product models.Product
	err := r.db.Preload("Reviews").First(&product, "id = ?", id).Error
	if err != nil {
		return models.Product{}, fmt.Errorf("products: find %s: %w", id, err)
	}
	return product, nil
}

// Create persists a new product. The model's save hook keeps both
// image columns in sync with the canonical Images slice.
func (r *ProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	return nil
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		return fmt.Errorf("products: update %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product and its reviews.
func (r *ProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("products: delete reviews of %s: %w", id, err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("products: delete %s: %w", id, err)
		}
		return nil
	})
}

// AddReview appends a review to a product.
func (r *ProductRepository) AddReview(review *models.Review) error {
	if err := r.db.Create(review).Error; err != nil {
		return fmt.Errorf("products: add review to %s: %w", review.ProductID, err)
	}
	return nil
}

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
