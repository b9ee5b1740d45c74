package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks missing or invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrNotFound marks a missing invoice.
	ErrNotFound = errors.New("invoice not found")
	// ErrStorage marks an unexpected backend failure.
	ErrStorage = errors.New("storage error")
	// ErrStorageTimeout marks a storage call that exceeded its deadline.
	ErrStorageTimeout = errors.New("storage timeout")
)

// ValidationError carries per-field validation messages keyed by JSON name.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, k := range sortedFields(e.Fields) {
		if k == "_" {
			parts = append(parts, e.Fields[k])
			continue
		}
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) error {
	return &ValidationError{Message: "Validation failed", Fields: map[string]string{field: msg}}
}

// Duplicate fields.
const (
	FieldInvoiceNumber = "invoiceNumber"
	FieldSerialNumber  = "serialNumber"
)

// DuplicateError reports which unique field collided.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	switch e.Field {
	case FieldInvoiceNumber:
		return "Invoice number already exists"
	case FieldSerialNumber:
		return "Serial number already exists"
	default:
		return fmt.Sprintf("%s already exists", e.Field)
	}
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }
