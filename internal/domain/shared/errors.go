package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so callers can tell a rejected request
// apart from a broken invariant found in stored data.
type ErrorKind string

const (
	// KindValidation marks a precondition that failed before any mutation
	KindValidation ErrorKind = "VALIDATION"
	// KindConsistency marks an invariant violation observed in persisted state
	KindConsistency ErrorKind = "CONSISTENCY"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so sentinel values work with errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new validation-kind domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindValidation,
	}
}

// NewValidationError is an alias of NewDomainError that reads better at call sites
// where the caller input is at fault
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(code, message)
}

// NewConsistencyFault creates an error reporting a prior invariant violation.
// Operations returning it must abort instead of correcting the data.
func NewConsistencyFault(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Kind:    KindConsistency,
	}
}

// PersistenceError wraps a storage failure (query, commit) so that the caller
// knows the operation did not complete and nothing was written.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying storage error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err; returns nil when err is nil
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// IsValidationError reports whether err carries a validation-kind DomainError
func IsValidationError(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == KindValidation
}

// IsConsistencyFault reports whether err carries a consistency-kind DomainError
func IsConsistencyFault(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == KindConsistency
}

// IsPersistenceError reports whether err wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
