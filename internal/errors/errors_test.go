package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("grades retrieval failed", cause).
		WithContext("source", "grades").
		WithContext("status", 503)

	assert.Equal(t, "[NETWORK] grades retrieval failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "grades", err.Context["source"])

	wrapped := fmt.Errorf("refresh: %w", err)
	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrTypeNetwork, appErr.Type)
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := NewNotFoundError("subject")
	assert.Equal(t, "[NOT_FOUND] subject not found", err.Error())
	assert.Nil(t, errors.Unwrap(err))

	var bare AppError
	bare.WithContext("k", "v")
	assert.Equal(t, "v", bare.Context["k"])
}

func TestStatusForType(t *testing.T) {
	tests := map[ErrorType]int{
		ErrTypeNetwork:     http.StatusBadGateway,
		ErrTypePermission:  http.StatusForbidden,
		ErrTypeNotFound:    http.StatusNotFound,
		ErrTypeValidation:  http.StatusBadRequest,
		ErrTypeParsing:     http.StatusBadRequest,
		ErrTypeUnavailable: http.StatusServiceUnavailable,
		ErrTypeConfig:      http.StatusInternalServerError,
	}
	for typ, want := range tests {
		assert.Equal(t, want, StatusForType(typ), string(typ))
	}
}

func TestAPIErrorHelpers(t *testing.T) {
	err := MissingParameterError("week")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "MISSING_PARAMETER", err.ErrorCode)
	assert.Equal(t, "week", err.Details)

	inv := InvalidParameterError("week", errors.New("not a number"))
	assert.Equal(t, "INVALID_PARAMETER", inv.ErrorCode)
	assert.Equal(t, "not a number", inv.Details)

	assert.Equal(t, "Access denied", ErrForbidden.Error())
}
