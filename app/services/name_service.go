package services

import (
	"context"
	"strings"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/logger"
)

type NameStore interface {
	Create(ctx context.Context, n *models.Name) error
}

type NameService struct {
	names NameStore
}

func NewNameService(names NameStore) *NameService {
	return &NameService{names: names}
}

// Save reports whether the name was stored.
func (s *NameService) Save(ctx context.Context, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if err := s.names.Create(ctx, &models.Name{Name: name}); err != nil {
		logger.WithCtx(ctx).Error("save name failed", "error", err)
		return false
	}
	return true
}
