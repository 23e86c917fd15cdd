package apperrors

import (
	"errors"
	"net/http"
)

// Kind is the stable, machine-readable name of an error returned to API clients.
type Kind string

const (
	KindNotFound               Kind = "NOT_FOUND"
	KindValidation             Kind = "VALIDATION_ERROR"
	KindDuplicateCode          Kind = "DUPLICATE_CODE"
	KindInvalidParent          Kind = "INVALID_PARENT"
	KindHasBalance             Kind = "HAS_BALANCE"
	KindAccountInactive        Kind = "ACCOUNT_INACTIVE"
	KindEmptyDescription       Kind = "EMPTY_DESCRIPTION"
	KindTooFewLines            Kind = "TOO_FEW_LINES"
	KindUnknownAccount         Kind = "UNKNOWN_ACCOUNT"
	KindInvalidLineAmount      Kind = "INVALID_LINE_AMOUNT"
	KindUnbalanced             Kind = "UNBALANCED"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindAlreadyReversed        Kind = "ALREADY_REVERSED"
	KindImmutableEntry         Kind = "IMMUTABLE_ENTRY"
	KindDuplicate              Kind = "DUPLICATE"
	KindInternal               Kind = "INTERNAL"
)

type kindMapping struct {
	err    error
	kind   Kind
	status int
}

// Order matters: the more specific sentinels come first.
var kindMappings = []kindMapping{
	{ErrNotFound, KindNotFound, http.StatusNotFound},
	{ErrDuplicateCode, KindDuplicateCode, http.StatusConflict},
	{ErrInvalidParent, KindInvalidParent, http.StatusBadRequest},
	{ErrHasBalance, KindHasBalance, http.StatusConflict},
	{ErrAccountInactive, KindAccountInactive, http.StatusConflict},
	{ErrEmptyDescription, KindEmptyDescription, http.StatusBadRequest},
	{ErrTooFewLines, KindTooFewLines, http.StatusBadRequest},
	{ErrUnknownAccount, KindUnknownAccount, http.StatusBadRequest},
	{ErrInvalidLineAmount, KindInvalidLineAmount, http.StatusBadRequest},
	{ErrUnbalanced, KindUnbalanced, http.StatusBadRequest},
	{ErrConcurrentModification, KindConcurrentModification, http.StatusConflict},
	{ErrAlreadyReversed, KindAlreadyReversed, http.StatusConflict},
	{ErrImmutableEntry, KindImmutableEntry, http.StatusMethodNotAllowed},
	{ErrDuplicate, KindDuplicate, http.StatusConflict},
	{ErrValidation, KindValidation, http.StatusBadRequest},
}

// KindOf returns the Kind for err, or KindInternal if err is not a known sentinel.
func KindOf(err error) Kind {
	for _, m := range kindMappings {
		if errors.Is(err, m.err) {
			return m.kind
		}
	}
	return KindInternal
}

// HTTPStatus returns the HTTP status code clients should receive for err.
func HTTPStatus(err error) int {
	for _, m := range kindMappings {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// IsValidationKind reports whether err is one of the journal validation failures.
func IsValidationKind(err error) bool {
	switch KindOf(err) {
	case KindEmptyDescription, KindTooFewLines, KindUnknownAccount, KindInvalidLineAmount, KindUnbalanced, KindValidation:
		return true
	}
	return false
}

// IsClientError reports whether err is the caller's fault rather than a server failure.
func IsClientError(err error) bool {
	return HTTPStatus(err) < http.StatusInternalServerError
}
