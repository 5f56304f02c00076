package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for scoring errors. The typed errors below unwrap to
// these so callers can branch with errors.Is.
var (
	ErrValidation    = errors.New("batch validation failed")
	ErrOutOfBounds   = errors.New("measurement out of bounds")
	ErrRangeMismatch = errors.New("no scoring range for value")
)

// Category names one structural validation failure mode.
type Category string

// Validation failure categories, in evaluation order.
const (
	CategoryMissing    Category = "missing"
	CategoryUnexpected Category = "unexpected"
	CategoryDuplicate  Category = "duplicate"
)

// ValidationError reports every offending type name of one category.
type ValidationError struct {
	Category Category
	Names    []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s measurement types: %s", e.Category, strings.Join(e.Names, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// BoundsError reports a value outside its type's valid interval. The
// interval is exclusive-lower, inclusive-upper.
type BoundsError struct {
	Type        string
	Description string
	Min         int
	Max         int
	Value       int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("value %d for %s (%s) outside valid interval (%d, %d]",
		e.Value, e.Type, e.Description, e.Min, e.Max)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }

// MismatchError reports a value that passed the bounds check but matched
// no configured range. This is a configuration defect, not a caller error.
type MismatchError struct {
	Type  string
	Value int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("value %d for %s passed bounds check but matched no configured range", e.Value, e.Type)
}

func (e *MismatchError) Unwrap() error { return ErrRangeMismatch }
