package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/metrics"
)

// AddressRepository keeps at most one address per buyer email.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) FindByEmail(ctx context.Context, email string) (models.Address, error) {
	defer metrics.ObserveDBQuery("addresses.find", time.Now())

	var a models.Address
	if err := r.db.WithContext(ctx).Where("buyer_email = ?", email).First(&a).Error; err != nil {
		return a, fmt.Errorf("repositories: find address of %q: %w", email, err)
	}
	return a, nil
}

// Save inserts a new address or updates an existing one by primary key.
func (r *AddressRepository) Save(ctx context.Context, a *models.Address) error {
	defer metrics.ObserveDBQuery("addresses.save", time.Now())

	db := r.db.WithContext(ctx)
	var err error
	if a.ID == 0 {
		err = db.Create(a).Error
	} else {
		err = db.Save(a).Error
	}
	if err != nil {
		return fmt.Errorf("repositories: save address of %q: %w", a.BuyerEmail, err)
	}
	return nil
}

// DeleteByEmail reports whether a row was removed.
func (r *AddressRepository) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	defer metrics.ObserveDBQuery("addresses.delete", time.Now())

	res := r.db.WithContext(ctx).Where("buyer_email = ?", email).Delete(&models.Address{})
	if res.Error != nil {
		return false, fmt.Errorf("repositories: delete address of %q: %w", email, res.Error)
	}
	return res.RowsAffected > 0, nil
}
