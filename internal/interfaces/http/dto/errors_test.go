package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/adspace/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodePersistence, http.StatusServiceUnavailable},
		{ErrCodeConsistencyFault, http.StatusConflict},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeConflict, NormalizeErrorCode("IN_USE"))
	assert.Equal(t, "INVALID_AMOUNT", NormalizeErrorCode("INVALID_AMOUNT"))
}

func TestDomainErrorStatus(t *testing.T) {
	tests := []struct {
		err      *shared.DomainError
		code     string
		expected int
	}{
		{shared.NewDomainError("INVALID_AMOUNT", "bad"), "INVALID_AMOUNT", http.StatusBadRequest},
		{shared.NewDomainError("INVALID_PERIOD", "bad"), "INVALID_PERIOD", http.StatusBadRequest},
		{shared.NewDomainError("PAYMENT_NOT_FOUND", "x"), "PAYMENT_NOT_FOUND", http.StatusNotFound},
		{shared.NewDomainError("INN_ALREADY_EXISTS", "x"), "INN_ALREADY_EXISTS", http.StatusConflict},
		{shared.NewDomainError("COUNTERPARTY_IN_USE", "x"), "COUNTERPARTY_IN_USE", http.StatusConflict},
		{shared.NewDomainError("GENERATION_IN_PROGRESS", "x"), "GENERATION_IN_PROGRESS", http.StatusConflict},
		{shared.NewDomainError("REALIZATION_COUNTERPARTY_MISMATCH", "x"), "REALIZATION_COUNTERPARTY_MISMATCH", http.StatusUnprocessableEntity},
		{shared.NewDomainError("REALIZATION_PAID", "x"), "REALIZATION_PAID", http.StatusUnprocessableEntity},
		{shared.NewDomainError("NOT_FOUND", "x"), ErrCodeNotFound, http.StatusNotFound},
		{shared.NewConsistencyFault("NEGATIVE_DEBT", "x"), ErrCodeConsistencyFault, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			code, status := DomainErrorStatus(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestErrorStatus(t *testing.T) {
	t.Run("wrapped domain error keeps its message", func(t *testing.T) {
		err := fmt.Errorf("create: %w", shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive"))
		code, status, msg := ErrorStatus(err)
		assert.Equal(t, "INVALID_AMOUNT", code)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Amount must be positive", msg)
	})

	t.Run("persistence error hides the driver message", func(t *testing.T) {
		code, status, msg := ErrorStatus(shared.NewPersistenceError("commit", errors.New("pq: connection reset")))
		assert.Equal(t, ErrCodePersistence, code)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.NotContains(t, msg, "pq:")
	})

	t.Run("unknown error", func(t *testing.T) {
		code, status, _ := ErrorStatus(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, code)
		assert.Equal(t, http.StatusInternalServerError, status)
	})
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "amount", Message: "This field is required"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.Len(t, errInfo["details"], 1)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 45, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	resp = NewSuccessResponseWithMeta(nil, 5, 0, 0)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, DefaultPageSize, resp.Meta.PageSize)
}
