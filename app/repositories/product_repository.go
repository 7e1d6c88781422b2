package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

// ProductRepository stores catalogue entries, image bytes included.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("products.create", time.Now())

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("repositories: create product: %w", err)
	}
	return nil
}

// Save writes every column of an existing product.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("products.save", time.Now())

	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("repositories: save product %d: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	defer metrics.ObserveDBQuery("products.find", time.Now())

	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return p, fmt.Errorf("repositories: find product %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("products.all", time.Now())

	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("repositories: list products: %w", err)
	}
	return products, nil
}

// Delete removes the product; a missing id is not an error.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveDBQuery("products.delete", time.Now())

	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("repositories: delete product %d: %w", id, err)
	}
	return nil
}
