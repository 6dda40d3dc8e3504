package cfdi

import (
	"errors"
	"fmt"
)

// Common CFDI processing errors
var (
	// ErrMalformedXML is returned when the document cannot be read as XML.
	ErrMalformedXML = errors.New("malformed XML document")

	// ErrMissingRoot is returned when the document has no root element.
	ErrMissingRoot = errors.New("document has no root element")

	// ErrInvalidDate is returned when a record's date is not in dd/mm/yyyy form
	// and therefore cannot be placed in a period.
	ErrInvalidDate = errors.New("issue date not in dd/mm/yyyy form")

	// ErrInvalidPeriod is returned when a period string is not YYYY-MM.
	ErrInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

	// ErrSourceDir is returned when the source directory cannot be listed.
	ErrSourceDir = errors.New("cannot read source directory")
)

// DocumentError wraps a failure while parsing a single CFDI document.
type DocumentError struct {
	// Op is the operation that failed (e.g., "Parse", "ParseFile").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("cfdi: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("cfdi: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDocumentError creates a new DocumentError with the specified operation and underlying error.
func NewDocumentError(op string, err error, details string) *DocumentError {
	return &DocumentError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// ParseError pairs a source filename with the reason it was skipped.
// Parse errors are collected per batch and never abort it.
type ParseError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e ParseError) Unwrap() error {
	return e.Err
}
