package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("status change not allowed")
	ErrVendorUnavailable = errors.New("vendor is not accepting orders")
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrAlreadyVendor     = errors.New("user already has a vendor account")
)

// notFound turns gorm's missing-row error into ErrNotFound naming what was
// looked up. Other errors pass through wrapped.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
