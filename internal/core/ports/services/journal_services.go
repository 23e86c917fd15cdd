package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/core/ledger"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a posted entry by its ID.
	GetJournalEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of posted entries, newest first.
	ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)

	// ListAccountEntries retrieves a page of posted entries that touch accountID, newest first.
	ListAccountEntries(ctx context.Context, accountID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// ValidateJournalEntry runs the journal validator without posting anything.
	ValidateJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest) (ledger.Totals, error)

	// PostJournalEntry validates the entry and applies it to account totals atomically.
	PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// ReverseJournalEntry posts a new entry that undoes journalID.
	ReverseJournalEntry(ctx context.Context, journalID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
