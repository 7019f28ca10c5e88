package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrConnectionNotFound = fmt.Errorf("%w: connection", ErrNotFound)

	// Data sufficiency errors
	ErrInsufficientData    = errors.New("insufficient data for analysis")
	ErrInsufficientOverlap = fmt.Errorf("%w: series overlap below minimum sample size", ErrInsufficientData)
	ErrNoUsableDomains     = fmt.Errorf("%w: no domain met the minimum day count", ErrInsufficientData)

	// Statistical errors
	ErrDegenerateSeries = errors.New("degenerate series: zero variance")
	ErrSeriesMismatch   = errors.New("series lengths do not match")

	// Extraction errors
	ErrDomainReadFailed = errors.New("domain read failed")
)

// NewNotFoundError builds a not-found error with resource context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// NewDomainReadError wraps an upstream store failure for one domain
func NewDomainReadError(domain string, err error) error {
	return fmt.Errorf("%w for domain %s: %v", ErrDomainReadFailed, domain, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsDegenerateError(err error) bool {
	return errors.Is(err, ErrDegenerateSeries)
}
