package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrStreamTruncated = errors.New("source stream truncated")
)

// FieldError reports a single unparsable field. It is scoped to one entity
// type: the decomposer that hits it is skipped for the current document and
// sibling decomposers keep running.
type FieldError struct {
	Path  string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed field %s (%q): %v", e.Path, e.Value, e.Err)
	}
	return fmt.Sprintf("malformed field %s (%q)", e.Path, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DocumentError reports an unparsable primary record. The whole document is
// skipped and logged; file-level processing continues with the next document.
type DocumentError struct {
	DocID string
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %v", e.DocID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// AsFieldError reports whether err is (or wraps) a FieldError.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	ok := errors.As(err, &fe)
	return fe, ok
}
