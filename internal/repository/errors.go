package repository

import (
	"errors"
	"strings"

	"coursehub/internal/database"
)

var ErrNotFound = errors.New("record not found")

// DuplicateError is returned when an insert or update collides with a
// unique constraint. Field names the colliding column.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return "duplicate value for " + e.Field
}

// duplicate maps a unique violation to a DuplicateError for the first
// candidate field that the violation mentions.
func duplicate(err error, fields ...string) error {
	detail, ok := database.UniqueViolation(err)
	if !ok {
		return err
	}
	for _, f := range fields {
		if strings.Contains(detail, f) {
			return &DuplicateError{Field: f}
		}
	}
	return &DuplicateError{Field: detail}
}
