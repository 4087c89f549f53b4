package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the source dataset could not be read or fetched.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMissingColumn means a transformation referenced a column the table does not have.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedValue means a single cell failed to parse.
	ErrMalformedValue = errors.New("malformed value")
	// ErrAmbiguousTie marks a selection that had to break a tie. It is never fatal.
	ErrAmbiguousTie = errors.New("ambiguous tie")
)

// MissingColumnError names the operation and the absent column.
type MissingColumnError struct {
	Op     string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing column %q", e.Op, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}

// MalformedValueError describes a cell that could not be parsed.
type MalformedValueError struct {
	Err    error
	Column string
	Value  string
}

func (e *MalformedValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s value %q: %v", e.Column, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed %s value %q", e.Column, e.Value)
}

func (e *MalformedValueError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedValue, e.Err}
	}
	return []error{ErrMalformedValue}
}

// IsMissingColumn reports whether err is, or wraps, a missing column condition.
func IsMissingColumn(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}
