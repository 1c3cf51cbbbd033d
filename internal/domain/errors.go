package domain

import (
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrInvalidInput       = "INVALID_INPUT"
	ErrLookupFailure      = "LOOKUP_FAILURE"
	ErrReportPrecondition = "REPORT_PRECONDITION"
	ErrSessionNotFound    = "SESSION_NOT_FOUND"
	ErrAssistantUpstream  = "ASSISTANT_UPSTREAM_ERROR"
	ErrCatalogInvalid     = "CATALOG_INVALID"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
)

// LookupError signals that a requested catalog entry does not exist.
// Callers treat it as a no-op: prior state remains unchanged.
type LookupError struct {
	Kind string `json:"kind"` // "material" or "bone_site"
	ID   string `json:"id"`
}

// Error implements the error interface
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: unknown %s %q", ErrLookupFailure, e.Kind, e.ID)
}

// NewLookupError creates a LookupError for a missing catalog entry
func NewLookupError(kind, id string) *LookupError {
	return &LookupError{Kind: kind, ID: id}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// PreconditionError signals an operation requested before its inputs exist,
// e.g. a report requested with no current breakdown.
type PreconditionError struct {
	Operation string `json:"operation"`
	Message   string `json:"message"`
}

// Error implements the error interface
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrReportPrecondition, e.Operation, e.Message)
}

// NewPreconditionError creates a new PreconditionError
func NewPreconditionError(operation, message string) *PreconditionError {
	return &PreconditionError{Operation: operation, Message: message}
}
