package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	defer metrics.ObserveDBQuery("users.find", time.Now())

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return user, fmt.Errorf("repositories: find user %q: %w", email, err)
	}
	return user, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("users.create", time.Now())

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("repositories: create user: %w", err)
	}
	return nil
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("users.update", time.Now())

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("repositories: update user %d: %w", user.ID, err)
	}
	return nil
}
