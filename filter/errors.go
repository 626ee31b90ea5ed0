package filter

import (
	"errors"
	"fmt"
)

// ErrUnknownProperty is returned when a property id was never registered in
// the index of its dimension.
var ErrUnknownProperty = errors.New("unknown property id")

// UnknownPropertyError carries the dimension and id of a failed lookup.
type UnknownPropertyError struct {
	Dimension Dimension
	ID        string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnknownProperty, e.Dimension, e.ID)
}

// Unwrap lets callers match the error with errors.Is(err, ErrUnknownProperty).
func (e *UnknownPropertyError) Unwrap() error {
	return ErrUnknownProperty
}
