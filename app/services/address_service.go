package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/database"
)

type AddressStore interface {
	FindByEmail(ctx context.Context, email string) (models.Address, error)
	Save(ctx context.Context, a *models.Address) error
	DeleteByEmail(ctx context.Context, email string) (bool, error)
}

type AddressService struct {
	addresses AddressStore
}

func NewAddressService(addresses AddressStore) *AddressService {
	return &AddressService{addresses: addresses}
}

// Save upserts the address keyed by buyer email.
func (s *AddressService) Save(ctx context.Context, a models.Address) (models.Address, error) {
	if strings.TrimSpace(a.BuyerEmail) == "" {
		return a, &ValidationError{Fields: map[string]string{
			"buyerEmail": "The buyerEmail field is required.",
		}}
	}

	existing, err := s.addresses.FindByEmail(ctx, a.BuyerEmail)
	switch {
	case err == nil:
		existing.CopyFrom(a)
		a = existing
	case database.IsNotFound(err):
		a.ID = 0
	default:
		return a, fmt.Errorf("services: save address: %w", err)
	}

	if err := s.addresses.Save(ctx, &a); err != nil {
		return a, fmt.Errorf("services: save address: %w", translate(err))
	}
	return a, nil
}

func (s *AddressService) ByEmail(ctx context.Context, email string) (models.Address, error) {
	a, err := s.addresses.FindByEmail(ctx, email)
	if err != nil {
		return a, fmt.Errorf("services: address of %q: %w", email, translate(err))
	}
	return a, nil
}

// Delete reports whether an address existed.
func (s *AddressService) Delete(ctx context.Context, email string) (bool, error) {
	removed, err := s.addresses.DeleteByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("services: delete address: %w", err)
	}
	return removed, nil
}
