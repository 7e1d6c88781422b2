package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

type NameRepository struct {
	db *gorm.DB
}

func NewNameRepository(db *gorm.DB) *NameRepository {
	return &NameRepository{db: db}
}

func (r *NameRepository) Create(ctx context.Context, n *models.Name) error {
	defer metrics.ObserveDBQuery("names.create", time.Now())

	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("repositories: create name: %w", err)
	}
	return nil
}
