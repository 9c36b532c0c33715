package pkg

import (
	"errors"
	"fmt"
)

// Encoding errors.
var (
	// ErrRange indicates a numeric value outside its declared byte width.
	ErrRange = errors.New("value out of range")

	// ErrEncoding indicates a value that cannot be represented in the target encoding.
	ErrEncoding = errors.New("value not encodable")

	// ErrOverflow indicates a bitmap whose bits exceed its declared byte width.
	ErrOverflow = errors.New("bitmap overflow")

	// ErrEmptyInput indicates an empty string or byte field.
	ErrEmptyInput = errors.New("empty input")

	// ErrTypeMismatch indicates a value whose shape does not match the encoder.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Schema and definition errors.
var (
	// ErrUnknownKind indicates a descriptor kind outside the catalog.
	ErrUnknownKind = errors.New("unknown descriptor kind")

	// ErrUnknownOption indicates an option not recognized by a descriptor kind.
	ErrUnknownOption = errors.New("unknown option")

	// ErrChildrenNotAllowed indicates children given to a record kind.
	ErrChildrenNotAllowed = errors.New("descriptor kind does not accept children")

	// ErrUnsupportedFormat indicates an unknown file or output format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// FieldError reports an encoding failure for a labelled field.
type FieldError struct {
	Label string // Field label
	Value any    // Offending value
	Err   error  // One of the encoding sentinels
}

// Error returns the label, the offending value and the cause.
func (e *FieldError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("field value %v: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("field %q value %v: %v", e.Label, e.Value, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError returns a [FieldError] wrapping err.
func NewFieldError(label string, value any, err error) *FieldError {
	return &FieldError{Label: label, Value: value, Err: err}
}
