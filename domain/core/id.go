package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	UserID       ID
	ConnectionID ID
	RunID        ID
)

// String conversions for domain IDs
func (id UserID) String() string       { return ID(id).String() }
func (id ConnectionID) String() string { return ID(id).String() }
func (id RunID) String() string        { return ID(id).String() }

// ParseUserID parses a string into UserID
func ParseUserID(s string) (UserID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("user ID cannot be empty")
	}
	return UserID(s), nil
}

// ParseConnectionID parses a string into ConnectionID
func ParseConnectionID(s string) (ConnectionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("connection ID cannot be empty")
	}
	return ConnectionID(s), nil
}
