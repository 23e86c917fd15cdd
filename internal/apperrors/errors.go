package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal wraps infrastructure failures that callers cannot act on.
var ErrInternal = errors.New("internal error")

// Account registry errors.
var (
	// ErrDuplicateCode indicates that an active account already uses the requested code.
	ErrDuplicateCode = errors.New("account code already in use")
	// ErrInvalidParent indicates a missing parent, a parent of another type, or a hierarchy cycle.
	ErrInvalidParent = errors.New("invalid parent account")
	// ErrHasBalance indicates an account with a nonzero net balance cannot be deactivated.
	ErrHasBalance = errors.New("account has a nonzero balance")
	// ErrAccountInactive indicates the account is already inactive.
	ErrAccountInactive = errors.New("account is inactive")
)

// Journal validation errors, listed in the order they are checked.
var (
	ErrEmptyDescription  = errors.New("journal entry description is required")
	ErrTooFewLines       = errors.New("journal entry must have at least two lines")
	ErrUnknownAccount    = errors.New("journal line references an unknown or inactive account")
	ErrInvalidLineAmount = errors.New("journal line must carry exactly one positive amount")
	ErrUnbalanced        = errors.New("journal entry debits and credits do not balance")
)

// Posting errors.
var (
	// ErrConcurrentModification indicates the ledger changed between validation and apply.
	ErrConcurrentModification = errors.New("ledger was modified concurrently")
	// ErrAlreadyReversed indicates the entry was already reversed, or is itself a reversal.
	ErrAlreadyReversed = errors.New("journal entry cannot be reversed again")
	// ErrImmutableEntry indicates an attempt to delete or edit a posted entry.
	ErrImmutableEntry = errors.New("posted journal entries are immutable")
)

// AppError carries an HTTP-ish status code and a message alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
