package models

import (
	"fmt"

	"github.com/google/uuid"
)

// UUIDLength is the length of the canonical hyphenated UUID form.
const UUIDLength = 36

// ValidateUUID reports a validation error unless s is a canonical UUID string.
func ValidateUUID(field, s string) error {
	if len(s) != UUIDLength {
		return NewValidationError(fmt.Sprintf("%s must be a %d-character UUID, got %q", field, UUIDLength, s))
	}
	if _, err := uuid.Parse(s); err != nil {
		return NewValidationError(fmt.Sprintf("%s is not a valid UUID: %q", field, s))
	}
	return nil
}
