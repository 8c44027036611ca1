package catalog

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when an operation names an id that is not in
// the merged collection.
var ErrNotFound = errors.New("fact not found")

// ErrNotDeletable is returned when a delete targets a base-origin fact.
// Base records are read-only; the collection is left untouched.
var ErrNotDeletable = errors.New("fact is not deletable")

// ValidationError carries every violated rule from a create request, in
// the order the rules are checked.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}
