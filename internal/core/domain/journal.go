package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft  JournalStatus = "DRAFT"
	Posted JournalStatus = "POSTED"
)

// EntryNumberFormat renders entry numbers for display.
const EntryNumberFormat = "JE-%06d"

// JournalLine is one debit or credit against a single account.
// Exactly one of Debit and Credit is positive on a valid line.
type JournalLine struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Notes     string          `json:"notes,omitempty"`

	// RunningBalance is the account's net balance right after this line was applied.
	// Only set on posted entries.
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// IsDebit reports whether the line debits its account.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns whichever side of the line is set.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Swapped returns the line with debit and credit exchanged.
func (l JournalLine) Swapped() JournalLine {
	return JournalLine{
		AccountID: l.AccountID,
		Debit:     l.Credit,
		Credit:    l.Debit,
		Notes:     l.Notes,
	}
}

// JournalEntry is a dated, described set of lines.
// Once posted it is immutable; corrections are made with a reversing entry.
type JournalEntry struct {
	JournalID    string          `json:"journalID"`
	EntryNumber  int64           `json:"entryNumber"`
	Date         time.Time       `json:"date"`
	Description  string          `json:"description"`
	Reference    string          `json:"reference,omitempty"`
	Lines        []JournalLine   `json:"lines"`
	Status       JournalStatus   `json:"status"`
	TotalDebit   decimal.Decimal `json:"totalDebit"`
	TotalCredit  decimal.Decimal `json:"totalCredit"`
	ReversalOfID string          `json:"reversalOfID,omitempty"` // set on reversing entries
	PostedAt     time.Time       `json:"postedAt"`
	PostedBy     string          `json:"postedBy"`
	AuditFields
}

// Number returns the display form of the entry number, e.g. "JE-000001".
func (e JournalEntry) Number() string {
	return FormatEntryNumber(e.EntryNumber)
}

// FormatEntryNumber renders n as an entry number.
func FormatEntryNumber(n int64) string {
	return fmt.Sprintf(EntryNumberFormat, n)
}

// IsReversal reports whether the entry reverses another entry.
func (e JournalEntry) IsReversal() bool {
	return e.ReversalOfID != ""
}

// AccountIDs returns the distinct account IDs referenced by the entry, in line order.
func (e JournalEntry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// Clone returns a copy of the entry that shares no line storage with e.
func (e JournalEntry) Clone() JournalEntry {
	out := e
	if e.Lines != nil {
		out.Lines = make([]JournalLine, len(e.Lines))
		copy(out.Lines, e.Lines)
	}
	return out
}

// Touches reports whether any line of the entry posts to accountID.
func (e JournalEntry) Touches(accountID string) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}
