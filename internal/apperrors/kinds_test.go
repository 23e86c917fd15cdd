package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"not found", fmt.Errorf("account abc: %w", ErrNotFound), KindNotFound, http.StatusNotFound},
		{"duplicate code", ErrDuplicateCode, KindDuplicateCode, http.StatusConflict},
		{"has balance", fmt.Errorf("%w: 100.00", ErrHasBalance), KindHasBalance, http.StatusConflict},
		{"unbalanced", ErrUnbalanced, KindUnbalanced, http.StatusBadRequest},
		{"concurrent", ErrConcurrentModification, KindConcurrentModification, http.StatusConflict},
		{"immutable", ErrImmutableEntry, KindImmutableEntry, http.StatusMethodNotAllowed},
		{"wrapped in app error", NewAppError(500, "lock accounts", ErrConcurrentModification), KindConcurrentModification, http.StatusConflict},
		{"unknown", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestIsValidationKind(t *testing.T) {
	assert.True(t, IsValidationKind(ErrTooFewLines))
	assert.True(t, IsValidationKind(fmt.Errorf("line 2: %w", ErrInvalidLineAmount)))
	assert.False(t, IsValidationKind(ErrNotFound))
	assert.False(t, IsValidationKind(ErrConcurrentModification))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(500, "failed to commit transaction", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to commit transaction: connection reset", err.Error())
	assert.Equal(t, "no cause", NewAppError(400, "no cause", nil).Error())
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(fmt.Errorf("%w: 1010", ErrDuplicateCode)))
	assert.True(t, IsClientError(ErrHasBalance))
	assert.False(t, IsClientError(errors.New("disk full")))
	assert.False(t, IsClientError(NewAppError(500, "failed to save", errors.New("boom"))))
}
