package ledger

import (
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
)

// Applied is the outcome of applying a validated entry to its accounts.
type Applied struct {
	// Accounts holds updated copies of every touched account, keyed by ID.
	Accounts map[string]domain.Account
	// Lines are the entry lines with RunningBalance filled in.
	Lines []domain.JournalLine
}

// Apply adds each line's debit and credit to its account's running totals.
// The inputs are not modified. Every touched account gets its Version bumped once.
// An account that is missing or inactive at apply time means the ledger moved
// underneath a validated entry and yields ErrConcurrentModification.
func Apply(accounts map[string]domain.Account, lines []domain.JournalLine, actor string, now time.Time) (Applied, error) {
	updated := make(map[string]domain.Account, len(accounts))
	out := make([]domain.JournalLine, len(lines))

	for i, line := range lines {
		acc, ok := updated[line.AccountID]
		if !ok {
			acc, ok = accounts[line.AccountID]
			if !ok || !acc.IsActive {
				return Applied{}, fmt.Errorf("%w: account %s is no longer postable", apperrors.ErrConcurrentModification, line.AccountID)
			}
			acc.Version++
			acc.Touch(actor, now)
		}

		signed, err := accounting.CalculateSignedAmount(line, acc.AccountType)
		if err != nil {
			return Applied{}, err
		}
		before := acc.NetBalance()

		acc.DebitTotal = acc.DebitTotal.Add(line.Debit)
		acc.CreditTotal = acc.CreditTotal.Add(line.Credit)
		updated[line.AccountID] = acc

		out[i] = line
		out[i].RunningBalance = before.Add(signed)
	}

	return Applied{Accounts: updated, Lines: out}, nil
}

// NextEntryNumber returns the number the next posted entry receives.
func NextEntryNumber(previousMax int64) int64 {
	return previousMax + 1
}

// ReverseLines returns lines that undo the given ones: each line's sides are swapped.
func ReverseLines(lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		out[i] = l.Swapped()
	}
	return out
}
