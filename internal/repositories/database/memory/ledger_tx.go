package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const defaultPageSize = 20

// ledgerTx reads through its staged writes to the committed store.
// A ledgerTx with nil staging maps is a read-only view of committed state.
type ledgerTx struct {
	store    *Store
	accounts map[string]domain.Account
	entries  []domain.JournalEntry
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func newLedgerTx(s *Store) *ledgerTx {
	return &ledgerTx{
		store:    s,
		accounts: make(map[string]domain.Account),
	}
}

func (t *ledgerTx) commit() {
	for id, acc := range t.accounts {
		t.store.accounts[id] = acc
	}
	for _, e := range t.entries {
		t.store.entryIdx[e.JournalID] = len(t.store.entries)
		t.store.entries = append(t.store.entries, e)
		if e.ReversalOfID != "" {
			t.store.reversals[e.ReversalOfID] = e.JournalID
		}
	}
}

func (t *ledgerTx) account(id string) (domain.Account, bool) {
	if acc, ok := t.accounts[id]; ok {
		return acc, true
	}
	acc, ok := t.store.accounts[id]
	return acc, ok
}

func (t *ledgerTx) allAccounts() []domain.Account {
	out := make([]domain.Account, 0, len(t.store.accounts)+len(t.accounts))
	for id, acc := range t.store.accounts {
		if staged, ok := t.accounts[id]; ok {
			acc = staged
		}
		out = append(out, acc)
	}
	for id, acc := range t.accounts {
		if _, ok := t.store.accounts[id]; !ok {
			out = append(out, acc)
		}
	}
	return out
}

// allEntries returns committed then staged entries, ascending by entry number.
// The returned slice must not be modified.
func (t *ledgerTx) allEntries() []domain.JournalEntry {
	if len(t.entries) == 0 {
		return t.store.entries
	}
	out := make([]domain.JournalEntry, 0, len(t.store.entries)+len(t.entries))
	out = append(out, t.store.entries...)
	return append(out, t.entries...)
}

func (t *ledgerTx) activeCodeHolder(code string, exceptID string) (domain.Account, bool) {
	for _, acc := range t.allAccounts() {
		if acc.IsActive && acc.Code == code && acc.AccountID != exceptID {
			return acc, true
		}
	}
	return domain.Account{}, false
}

func (t *ledgerTx) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	acc, ok := t.account(accountID)
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &acc, nil
}

func (t *ledgerTx) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var (
		found    domain.Account
		hasFound bool
	)
	for _, acc := range t.allAccounts() {
		if acc.Code != code {
			continue
		}
		if acc.IsActive {
			return &acc, nil
		}
		if !hasFound || newerInactive(acc, found) {
			found, hasFound = acc, true
		}
	}
	if !hasFound {
		return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
	}
	return &found, nil
}

// newerInactive orders inactive holders of a code by LastUpdatedAt, then by AccountID.
func newerInactive(a, b domain.Account) bool {
	if !a.LastUpdatedAt.Equal(b.LastUpdatedAt) {
		return a.LastUpdatedAt.After(b.LastUpdatedAt)
	}
	return a.AccountID > b.AccountID
}

func (t *ledgerTx) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := t.account(id); ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (t *ledgerTx) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	// The store lock is already held for the whole transaction.
	return t.FindAccountsByIDs(ctx, accountIDs)
}

func (t *ledgerTx) ListAccounts(_ context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	all := t.allAccounts()
	out := make([]domain.Account, 0, len(all))
	for _, acc := range all {
		if !filter.IncludeInactive && !acc.IsActive {
			continue
		}
		if filter.AccountType != "" && acc.AccountType != filter.AccountType {
			continue
		}
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Code != out[j].Code {
			return out[i].Code < out[j].Code
		}
		return out[i].AccountID < out[j].AccountID
	})

	if filter.Offset >= len(out) {
		return []domain.Account{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (t *ledgerTx) SaveAccount(_ context.Context, account domain.Account) error {
	if _, exists := t.account(account.AccountID); exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if account.IsActive {
		if _, taken := t.activeCodeHolder(account.Code, account.AccountID); taken {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
		}
	}
	t.accounts[account.AccountID] = account
	return nil
}

func (t *ledgerTx) checkVersion(account domain.Account) (domain.Account, error) {
	current, ok := t.account(account.AccountID)
	if !ok {
		return domain.Account{}, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	if current.Version+1 != account.Version {
		return domain.Account{}, fmt.Errorf("%w: account %s is at version %d, update expected %d",
			apperrors.ErrConcurrentModification, account.AccountID, current.Version, account.Version-1)
	}
	return current, nil
}

func (t *ledgerTx) UpdateAccount(_ context.Context, account domain.Account) error {
	current, err := t.checkVersion(account)
	if err != nil {
		return err
	}
	if account.IsActive {
		if _, taken := t.activeCodeHolder(account.Code, account.AccountID); taken {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, account.Code)
		}
	}
	// Totals only move through UpdateAccountBalances.
	account.DebitTotal = current.DebitTotal
	account.CreditTotal = current.CreditTotal
	t.accounts[account.AccountID] = account
	return nil
}

func (t *ledgerTx) UpdateAccountBalances(_ context.Context, accounts []domain.Account) error {
	for _, acc := range accounts {
		if _, err := t.checkVersion(acc); err != nil {
			return err
		}
		t.accounts[acc.AccountID] = acc
	}
	return nil
}

func (t *ledgerTx) FindJournalEntryByID(_ context.Context, journalID string) (*domain.JournalEntry, error) {
	for _, e := range t.entries {
		if e.JournalID == journalID {
			clone := e.Clone()
			return &clone, nil
		}
	}
	idx, ok := t.store.entryIdx[journalID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalID)
	}
	clone := t.store.entries[idx].Clone()
	return &clone, nil
}

func (t *ledgerTx) FindReversalOf(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	for _, e := range t.entries {
		if e.ReversalOfID == journalID {
			clone := e.Clone()
			return &clone, nil
		}
	}
	reversingID, ok := t.store.reversals[journalID]
	if !ok {
		return nil, fmt.Errorf("%w: no reversal of journal entry %s", apperrors.ErrNotFound, journalID)
	}
	return t.FindJournalEntryByID(ctx, reversingID)
}

func (t *ledgerTx) ListJournalEntries(_ context.Context, filter portsrepo.ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	var before int64
	if filter.NextToken != nil && *filter.NextToken != "" {
		n, err := pagination.DecodeEntryNumberToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		before = n
	}

	all := t.allEntries()
	out := make([]domain.JournalEntry, 0, limit)
	var nextToken *string
	for i := len(all) - 1; i >= 0; i-- {
		e := all[i]
		if before > 0 && e.EntryNumber >= before {
			continue
		}
		if filter.AccountID != "" && !e.Touches(filter.AccountID) {
			continue
		}
		if len(out) == limit {
			token := pagination.EncodeEntryNumberToken(out[len(out)-1].EntryNumber)
			nextToken = &token
			break
		}
		out = append(out, e.Clone())
	}
	return out, nextToken, nil
}

func (t *ledgerTx) MaxEntryNumber(_ context.Context) (int64, error) {
	if n := len(t.entries); n > 0 {
		return t.entries[n-1].EntryNumber, nil
	}
	if n := len(t.store.entries); n > 0 {
		return t.store.entries[n-1].EntryNumber, nil
	}
	return 0, nil
}

func (t *ledgerTx) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	maxNumber, _ := t.MaxEntryNumber(ctx)
	if entry.EntryNumber <= maxNumber {
		return fmt.Errorf("%w: entry number %s already assigned", apperrors.ErrDuplicate, entry.Number())
	}
	if _, err := t.FindJournalEntryByID(ctx, entry.JournalID); err == nil {
		return fmt.Errorf("%w: journal entry %s already exists", apperrors.ErrDuplicate, entry.JournalID)
	}
	if entry.ReversalOfID != "" {
		if _, err := t.FindReversalOf(ctx, entry.ReversalOfID); err == nil {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyReversed, entry.ReversalOfID)
		}
	}
	t.entries = append(t.entries, entry.Clone())
	return nil
}

func (t *ledgerTx) SumLedgerTotals(_ context.Context) (portsrepo.LedgerTotals, error) {
	totals := portsrepo.LedgerTotals{
		AccountDebits:  decimal.Zero,
		AccountCredits: decimal.Zero,
		EntryDebits:    decimal.Zero,
		EntryCredits:   decimal.Zero,
	}
	for _, acc := range t.allAccounts() {
		totals.AccountDebits = totals.AccountDebits.Add(acc.DebitTotal)
		totals.AccountCredits = totals.AccountCredits.Add(acc.CreditTotal)
		totals.AccountCount++
	}
	for _, e := range t.allEntries() {
		for _, l := range e.Lines {
			totals.EntryDebits = totals.EntryDebits.Add(l.Debit)
			totals.EntryCredits = totals.EntryCredits.Add(l.Credit)
		}
		totals.EntryCount++
	}
	return totals, nil
}
