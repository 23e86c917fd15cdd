// Package memory is the in-process ledger store. A single mutex serializes every
// transaction, and writes are staged until the transaction function succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
)

// Store owns all ledger state for the process.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]domain.Account
	entries   []domain.JournalEntry // ascending entry number
	entryIdx  map[string]int        // journal ID -> index into entries
	reversals map[string]string     // original journal ID -> reversing journal ID
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]domain.Account),
		entryIdx:  make(map[string]int),
		reversals: make(map[string]string),
	}
}

// Ensure Store implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*Store)(nil)

// WithTx runs fn while holding the store lock. Staged writes are merged only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := newLedgerTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// reader returns a view over committed state. Callers must hold s.mu.
func (s *Store) reader() *ledgerTx {
	return &ledgerTx{store: s}
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().FindAccountByID(ctx, accountID)
}

// FindAccountByCode retrieves an account by its code.
func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().FindAccountByCode(ctx, code)
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves accounts ordered by code.
func (s *Store) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().ListAccounts(ctx, filter)
}

// FindJournalEntryByID retrieves a posted entry.
func (s *Store) FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().FindJournalEntryByID(ctx, journalID)
}

// FindReversalOf retrieves the entry reversing journalID.
func (s *Store) FindReversalOf(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().FindReversalOf(ctx, journalID)
}

// ListJournalEntries retrieves a page of posted entries, newest first.
func (s *Store) ListJournalEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().ListJournalEntries(ctx, filter)
}

// MaxEntryNumber returns the highest assigned entry number.
func (s *Store) MaxEntryNumber(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().MaxEntryNumber(ctx)
}

// SumLedgerTotals returns ledger-wide sums.
func (s *Store) SumLedgerTotals(ctx context.Context) (portsrepo.LedgerTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reader().SumLedgerTotals(ctx)
}
