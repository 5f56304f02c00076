package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// NewKind builds an operation-tagged error from a sentinel kind.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind builds an operation-tagged error from a sentinel kind and its
// underlying cause.
func WrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// Wrap tags an error with the operation it failed in.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
