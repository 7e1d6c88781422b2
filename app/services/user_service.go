package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmermarket/backend/app/models"
	"github.com/farmermarket/backend/pkg/database"
	"github.com/farmermarket/backend/pkg/logger"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// UserChanges are the fields a user update overwrites.
type UserChanges struct {
	Name     string `json:"name"     validate:"required,notblank"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserService manages accounts. Passwords are compared as stored.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register inserts a new farmer or buyer. A taken email is a Conflict.
func (s *UserService) Register(ctx context.Context, u models.User) (models.User, error) {
	u.ID = 0
	u.Role = strings.TrimSpace(u.Role)
	if !models.ValidRole(u.Role) {
		return u, fmt.Errorf("services: register: role must be 'farmer' or 'buyer': %w", ErrValidation)
	}

	_, err := s.users.FindByEmail(ctx, u.Email)
	switch {
	case err == nil:
		return u, fmt.Errorf("services: register %q: %w", u.Email, ErrConflict)
	case !database.IsNotFound(err):
		return u, fmt.Errorf("services: register: %w", err)
	}

	if err := s.users.Create(ctx, &u); err != nil {
		return u, fmt.Errorf("services: register: %w", translate(err))
	}

	logger.WithCtx(ctx).Info("user registered", "email", u.Email, "role", u.Role)
	return u, nil
}

// Login matches email and password exactly.
func (s *UserService) Login(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if database.IsNotFound(err) {
			return models.User{}, fmt.Errorf("services: login: %w", ErrUnauthorized)
		}
		return models.User{}, fmt.Errorf("services: login: %w", err)
	}
	if u.Password != password {
		return models.User{}, fmt.Errorf("services: login: %w", ErrUnauthorized)
	}
	return u, nil
}

func (s *UserService) ByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return u, fmt.Errorf("services: user %q: %w", email, translate(err))
	}
	return u, nil
}

// Update overwrites name, email and password of the user found by email.
func (s *UserService) Update(ctx context.Context, email string, changes UserChanges) (models.User, error) {
	u, err := s.ByEmail(ctx, email)
	if err != nil {
		return u, err
	}

	u.Name = changes.Name
	u.Email = changes.Email
	u.Password = changes.Password
	if err := s.users.Update(ctx, &u); err != nil {
		return u, fmt.Errorf("services: update user %q: %w", email, translate(err))
	}
	return u, nil
}
