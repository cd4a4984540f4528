package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/adspace/backoffice/internal/domain/shared"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodePersistence is used when storage failed and nothing was written
	ErrCodePersistence = "ERR_PERSISTENCE"
	// ErrCodeConsistencyFault is used when stored data already violates an invariant
	ErrCodeConsistencyFault = "ERR_CONSISTENCY_FAULT"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:          http.StatusInternalServerError,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodePersistence:      http.StatusServiceUnavailable,
	ErrCodeConsistencyFault: http.StatusConflict,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps generic domain codes to their standardized form
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"IN_USE":               ErrCodeConflict,
}

// NormalizeErrorCode converts a generic domain code to the standardized format.
// Specific domain codes (INVALID_AMOUNT, PAYMENT_NOT_FOUND ...) are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// businessRuleCodes are well-formed requests refused by the current state of the data
var businessRuleCodes = map[string]struct{}{
	"REALIZATION_PAID":         {},
	"TOTAL_BELOW_PAID":         {},
	"OVER_ALLOCATION":          {},
	"INSUFFICIENT_UNALLOCATED": {},
	"EXPORT_UNAVAILABLE":       {},
}

// DomainErrorStatus resolves the response code and HTTP status of a domain error.
// Consistency faults collapse to ERR_CONSISTENCY_FAULT; validation errors keep
// their code and are classified by it.
func DomainErrorStatus(de *shared.DomainError) (string, int) {
	if de.Kind == shared.KindConsistency {
		return ErrCodeConsistencyFault, http.StatusConflict
	}
	code := NormalizeErrorCode(de.Code)
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return code, status
	}
	if _, ok := businessRuleCodes[code]; ok {
		return code, http.StatusUnprocessableEntity
	}
	switch {
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return code, http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"),
		strings.HasSuffix(code, "_IN_USE"),
		strings.HasPrefix(code, "DUPLICATE_"),
		code == "GENERATION_IN_PROGRESS":
		return code, http.StatusConflict
	case strings.HasSuffix(code, "_MISMATCH"),
		code == "SERVICE_OUTSIDE_SPECIFICATION":
		return code, http.StatusUnprocessableEntity
	}
	return code, http.StatusBadRequest
}

// ErrorStatus resolves any service error to a response code, HTTP status and
// client-safe message.
func ErrorStatus(err error) (code string, status int, message string) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		code, status = DomainErrorStatus(de)
		return code, status, de.Message
	}
	if shared.IsPersistenceError(err) {
		return ErrCodePersistence, http.StatusServiceUnavailable, "Storage is unavailable, nothing was saved"
	}
	return ErrCodeInternal, http.StatusInternalServerError, "An unexpected error occurred"
}
