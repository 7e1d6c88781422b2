package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	defer metrics.ObserveDBQuery("messages.create", time.Now())

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("repositories: create message: %w", err)
	}
	return nil
}

// ByBuyerEmail returns the buyer's messages, oldest first.
func (r *MessageRepository) ByBuyerEmail(ctx context.Context, email string) ([]models.Message, error) {
	defer metrics.ObserveDBQuery("messages.by_email", time.Now())

	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("buyer_email = ?", email).
		Order("created_at ASC").Order("id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("repositories: messages of %q: %w", email, err)
	}
	return msgs, nil
}

func (r *MessageRepository) All(ctx context.Context) ([]models.Message, error) {
	defer metrics.ObserveDBQuery("messages.all", time.Now())

	var msgs []models.Message
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("repositories: list messages: %w", err)
	}
	return msgs, nil
}
