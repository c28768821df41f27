package playlist

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a playlist id does not resolve.
var ErrNotFound = errors.New("playlist not found")

// ErrItemNotFound is returned when an item id does not resolve within
// an existing playlist.
var ErrItemNotFound = errors.New("item not found")

// SchemaViolation reports fields that are illegal for the declared or
// inferred kind, or an attempt to mutate an immutable field.
type SchemaViolation struct {
	Field  string
	Reason string
}

func (v *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation: %s: %s", v.Field, v.Reason)
}

func violation(field, reason string) *SchemaViolation {
	return &SchemaViolation{Field: field, Reason: reason}
}
