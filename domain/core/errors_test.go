package core

import (
	"errors"
	"testing"
)

// TestErrorTaxonomy verifies the sentinel families stay distinguishable
// through wrapping, since callers route on them.
func TestErrorTaxonomy(t *testing.T) {
	if !IsNotFoundError(ErrUserNotFound) {
		t.Error("ErrUserNotFound should be a not-found error")
	}
	if !IsNotFoundError(NewNotFoundError("user", "u-1")) {
		t.Error("NewNotFoundError should wrap ErrNotFound")
	}
	if !errors.Is(ErrConnectionNotFound, ErrNotFound) {
		t.Error("ErrConnectionNotFound should wrap ErrNotFound")
	}

	if !IsInsufficientDataError(ErrNoUsableDomains) {
		t.Error("ErrNoUsableDomains should be an insufficient-data error")
	}
	if !IsInsufficientDataError(ErrInsufficientOverlap) {
		t.Error("ErrInsufficientOverlap should be an insufficient-data error")
	}
	if IsNotFoundError(ErrNoUsableDomains) || IsInsufficientDataError(ErrUserNotFound) {
		t.Error("The sentinel families must not overlap")
	}

	if !IsDegenerateError(ErrDegenerateSeries) {
		t.Error("ErrDegenerateSeries should be a degenerate error")
	}

	wrapped := NewDomainReadError("health", errors.New("connection refused"))
	if !errors.Is(wrapped, ErrDomainReadFailed) {
		t.Error("NewDomainReadError should wrap ErrDomainReadFailed")
	}
}
