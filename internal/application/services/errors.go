package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services. Handlers map them to status
// codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("not signed in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrVariantRequired    = errors.New("please select all product options")
	ErrVendorUnavailable  = errors.New("product options are temporarily unavailable")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
