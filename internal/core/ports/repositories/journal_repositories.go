package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListJournalEntriesFilter narrows a journal entry listing. Entries are returned newest first.
type ListJournalEntriesFilter struct {
	Limit     int
	NextToken *string
	AccountID string // only entries with a line on this account, when set
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalEntryByID retrieves a posted entry with its lines.
	FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// FindReversalOf retrieves the entry that reverses journalID, if any.
	FindReversalOf(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of posted entries using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, filter ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error)

	// MaxEntryNumber returns the highest entry number ever assigned, or 0.
	MaxEntryNumber(ctx context.Context) (int64, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournalEntry appends a posted entry and its lines.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error
}

// LedgerTotals are ledger-wide sums used by the integrity check.
type LedgerTotals struct {
	AccountDebits  decimal.Decimal
	AccountCredits decimal.Decimal
	EntryDebits    decimal.Decimal
	EntryCredits   decimal.Decimal
	AccountCount   int64
	EntryCount     int64
}

// IntegrityReader exposes ledger-wide sums.
type IntegrityReader interface {
	SumLedgerTotals(ctx context.Context) (LedgerTotals, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
