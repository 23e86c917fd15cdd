// Package ledger holds the pure posting rules: journal validation and balance application.
// Nothing here touches storage; callers run these inside their own transaction boundary.
package ledger

import (
	"fmt"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// MinLines is the fewest lines a journal entry may have.
const MinLines = 2

// AmountPlaces is the number of decimal places a line amount may carry.
const AmountPlaces = 2

// Exponent bounds checked before any arithmetic, so oversized input is rejected
// without expanding its coefficient.
const (
	maxAmountExponent = 16
	minAmountExponent = -18
)

// MaxLineAmount is the exclusive upper bound of a single line amount.
var MaxLineAmount = decimal.New(1, maxAmountExponent)

// AccountLookup resolves an account by ID. ok is false when the account does not exist.
type AccountLookup func(accountID string) (account domain.Account, ok bool)

// MapLookup adapts a map of accounts keyed by ID into an AccountLookup.
func MapLookup(accounts map[string]domain.Account) AccountLookup {
	return func(accountID string) (domain.Account, bool) {
		acc, ok := accounts[accountID]
		return acc, ok
	}
}

// Totals are the recomputed sums of a journal entry's lines.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Validate checks a draft entry and returns its recomputed totals.
// Checks run in a fixed order and the first failure is returned:
// description, line count, account resolution, line amounts, balance.
func Validate(draft domain.JournalEntry, lookup AccountLookup) (Totals, error) {
	if strings.TrimSpace(draft.Description) == "" {
		return Totals{}, apperrors.ErrEmptyDescription
	}

	if len(draft.Lines) < MinLines {
		return Totals{}, fmt.Errorf("%w: got %d", apperrors.ErrTooFewLines, len(draft.Lines))
	}

	for i, line := range draft.Lines {
		acc, ok := lookup(line.AccountID)
		if !ok || !acc.IsActive {
			return Totals{}, fmt.Errorf("%w: line %d references %q", apperrors.ErrUnknownAccount, i+1, line.AccountID)
		}
	}

	for i, line := range draft.Lines {
		if err := validateLineAmount(line); err != nil {
			return Totals{}, fmt.Errorf("%w: line %d %s", apperrors.ErrInvalidLineAmount, i+1, err.Error())
		}
	}

	debit, credit := accounting.SumLines(draft.Lines)
	if !accounting.IsBalanced(debit, credit) {
		return Totals{}, fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
	}

	return Totals{Debit: debit, Credit: credit}, nil
}

func validateLineAmount(line domain.JournalLine) error {
	for _, amount := range []decimal.Decimal{line.Debit, line.Credit} {
		if err := checkAmountRange(amount); err != nil {
			return err
		}
	}
	switch {
	case line.Debit.IsNegative() || line.Credit.IsNegative():
		return fmt.Errorf("has a negative amount")
	case line.Debit.IsPositive() && line.Credit.IsPositive():
		return fmt.Errorf("has both debit and credit")
	case line.Debit.IsZero() && line.Credit.IsZero():
		return fmt.Errorf("has neither debit nor credit")
	}
	return nil
}

// checkAmountRange rejects amounts too large for the ledger or finer than AmountPlaces.
// Zero amounts go through the exponent bounds too, since summing rescales them.
func checkAmountRange(amount decimal.Decimal) error {
	tooLarge := fmt.Errorf("amount must be below %s", MaxLineAmount.String())
	tooFine := fmt.Errorf("amount has more than %d decimal places", AmountPlaces)

	exp := amount.Exponent()
	switch {
	case exp > maxAmountExponent:
		return tooLarge
	case exp < minAmountExponent:
		return tooFine
	case amount.Abs().Cmp(MaxLineAmount) >= 0:
		return tooLarge
	case !amount.Equal(amount.Round(AmountPlaces)):
		return tooFine
	}
	return nil
}
