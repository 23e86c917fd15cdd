package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantConcurrent bool
	}{
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, true},
		{"deadlock", fmt.Errorf("update: %w", &pgconn.PgError{Code: pgDeadlockDetected}), true},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPgError(tt.err)
			assert.Equal(t, tt.wantConcurrent, errors.Is(got, apperrors.ErrConcurrentModification))
		})
	}
	assert.NoError(t, mapPgError(nil))
}

func TestPgErrorCode(t *testing.T) {
	wrapped := apperrors.NewAppError(500, "insert", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: activeCodeConstraint})

	code, constraint, ok := pgErrorCode(wrapped)
	assert.True(t, ok)
	assert.Equal(t, pgUniqueViolation, code)
	assert.Equal(t, activeCodeConstraint, constraint)

	_, _, ok = pgErrorCode(errors.New("not postgres"))
	assert.False(t, ok)
}
