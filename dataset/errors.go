package dataset

import (
	"errors"
	"fmt"
)

// ErrMalformedDataset marks a dataset that is structurally unusable.
var ErrMalformedDataset = errors.New("malformed dataset")

// MalformedError locates the offending record and field.
type MalformedError struct {
	// Record is a path such as "features[2].projects[0]".
	Record string
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedDataset, e.Record, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s: %s", ErrMalformedDataset, e.Record, e.Field, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedDataset
}

func malformed(record, field, reason string) *MalformedError {
	return &MalformedError{Record: record, Field: field, Reason: reason}
}
