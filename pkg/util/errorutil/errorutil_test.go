package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "domain error passes through",
			err:        NewNotFound("ticket", nil),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped domain error is unwrapped",
			err:        fmt.Errorf("load: %w", NewValidationError("bad", nil)),
			wantCode:   "VALIDATION_FAILED",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "pgx no rows maps to not found",
			err:        fmt.Errorf("query: %w", pgx.ErrNoRows),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "serialization failure",
			err:        NewSerializationError(errors.New("disk full")),
			wantCode:   "SERIALIZATION_FAILED",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "dependency unavailable",
			err:        NewDependencyUnavailable(map[string]any{"redis": "connection refused"}),
			wantCode:   CodeDependencyUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "unknown error becomes internal",
			err:        errors.New("boom"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("template", nil)))
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.False(t, IsNotFound(errors.New("other")))
	assert.False(t, IsNotFound(nil))
}

func TestNewNotFoundMessage(t *testing.T) {
	err := ToDomainError(NewNotFound("template", map[string]any{"templateType": "pir"}))
	assert.Equal(t, "template not found", err.Message)
	assert.Equal(t, "pir", err.Details["templateType"])
}

func TestInternalErrorKeepsCause(t *testing.T) {
	cause := errors.New("zip: write failed")
	err := NewSerializationError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "zip: write failed")
}
