package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farmermarket/backend/pkg/database"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoImage      = errors.New("no image stored")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries per-field messages. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// translate maps store errors onto the service error kinds.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case database.IsDuplicate(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
