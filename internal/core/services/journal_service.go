package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/core/ledger"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// reversalDescriptionFormat is used when a reversal request carries no description.
const reversalDescriptionFormat = "Reversal of %s"

// journalService implements the JournalSvcFacade interface
type journalService struct {
	BaseService
	repo portsrepo.LedgerRepositoryWithTx
}

// NewJournalService creates a new journal service.
func NewJournalService(repo portsrepo.LedgerRepositoryWithTx, options ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(options...),
		repo:        repo,
	}
}

// Ensure journalService implements the JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildDraft turns a request into an unposted entry, resolving account codes to IDs.
// An unresolvable code is kept as the line's account reference so validation reports it.
func (s *journalService) buildDraft(ctx context.Context, accounts portsrepo.AccountReader, req dto.PostJournalEntryRequest) (domain.JournalEntry, error) {
	draft := domain.JournalEntry{
		Description: strings.TrimSpace(req.Description),
		Reference:   strings.TrimSpace(req.Reference),
		Status:      domain.Draft,
		Lines:       make([]domain.JournalLine, len(req.Lines)),
	}
	if req.Date != nil {
		draft.Date = req.Date.UTC()
	}

	for i, l := range req.Lines {
		accountID := strings.TrimSpace(l.AccountID)
		if code := strings.TrimSpace(l.AccountCode); accountID == "" && code != "" {
			acc, err := accounts.FindAccountByCode(ctx, code)
			switch {
			case err == nil:
				accountID = acc.AccountID
			case errors.Is(err, apperrors.ErrNotFound):
				accountID = code
			default:
				return domain.JournalEntry{}, err
			}
		}
		draft.Lines[i] = domain.JournalLine{
			AccountID: accountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Notes:     l.Notes,
		}
	}
	return draft, nil
}

// post validates draft against locked accounts and applies it. It must run inside WithTx.
func (s *journalService) post(ctx context.Context, tx portsrepo.LedgerTx, draft domain.JournalEntry, actorID string) (domain.JournalEntry, error) {
	accounts, err := tx.FindAccountsByIDsForUpdate(ctx, draft.AccountIDs())
	if err != nil {
		return domain.JournalEntry{}, err
	}

	totals, err := ledger.Validate(draft, ledger.MapLookup(accounts))
	if err != nil {
		return domain.JournalEntry{}, err
	}

	previous, err := tx.MaxEntryNumber(ctx)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	now := s.Now()
	applied, err := ledger.Apply(accounts, draft.Lines, actorID, now)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	changed := make([]domain.Account, 0, len(applied.Accounts))
	for _, acc := range applied.Accounts {
		changed = append(changed, acc)
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].AccountID < changed[j].AccountID })
	if err := tx.UpdateAccountBalances(ctx, changed); err != nil {
		return domain.JournalEntry{}, err
	}

	entry := draft
	entry.JournalID = s.NewID()
	entry.EntryNumber = ledger.NextEntryNumber(previous)
	entry.Lines = applied.Lines
	entry.Status = domain.Posted
	entry.TotalDebit = totals.Debit
	entry.TotalCredit = totals.Credit
	entry.PostedAt = now
	entry.PostedBy = actorID
	entry.AuditFields = domain.NewAuditFields(actorID, now)
	if entry.Date.IsZero() {
		entry.Date = now
	}

	if err := tx.SaveJournalEntry(ctx, entry); err != nil {
		return domain.JournalEntry{}, err
	}
	return entry, nil
}

func (s *journalService) ValidateJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest) (ledger.Totals, error) {
	draft, err := s.buildDraft(ctx, s.repo, req)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve journal accounts")
		return ledger.Totals{}, err
	}

	accounts, err := s.repo.FindAccountsByIDs(ctx, draft.AccountIDs())
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal accounts")
		return ledger.Totals{}, err
	}

	totals, err := ledger.Validate(draft, ledger.MapLookup(accounts))
	if err != nil {
		s.LogDebug(ctx, "Journal entry failed validation", slog.String("error", err.Error()))
		return ledger.Totals{}, err
	}
	return totals, nil
}

func (s *journalService) PostJournalEntry(ctx context.Context, req dto.PostJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	var posted domain.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		draft, err := s.buildDraft(ctx, tx, req)
		if err != nil {
			return err
		}
		posted, err = s.post(ctx, tx, draft, actorID)
		return err
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			s.LogWarn(ctx, err, "Journal entry rejected", slog.Int("line_count", len(req.Lines)))
		} else {
			s.LogError(ctx, err, "Failed to post journal entry", slog.Int("line_count", len(req.Lines)))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("journal_id", posted.JournalID),
		slog.String("number", posted.Number()),
		slog.Int("line_count", len(posted.Lines)),
		slog.String("total", posted.TotalDebit.StringFixed(2)))
	return &posted, nil
}

func (s *journalService) ReverseJournalEntry(ctx context.Context, journalID string, req dto.ReverseJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	var posted domain.JournalEntry
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		original, err := tx.FindJournalEntryByID(ctx, journalID)
		if err != nil {
			return err
		}
		if original.IsReversal() {
			return fmt.Errorf("%w: %s is itself a reversal of %s", apperrors.ErrAlreadyReversed, original.Number(), original.ReversalOfID)
		}
		existing, err := tx.FindReversalOf(ctx, journalID)
		if err == nil {
			return fmt.Errorf("%w: %s was reversed by %s", apperrors.ErrAlreadyReversed, original.Number(), existing.Number())
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		draft := domain.JournalEntry{
			Description:  strings.TrimSpace(req.Description),
			Reference:    strings.TrimSpace(req.Reference),
			Status:       domain.Draft,
			Lines:        ledger.ReverseLines(original.Lines),
			ReversalOfID: original.JournalID,
		}
		if draft.Description == "" {
			draft.Description = fmt.Sprintf(reversalDescriptionFormat, original.Number())
		}
		if draft.Reference == "" {
			draft.Reference = original.Number()
		}
		if req.Date != nil {
			draft.Date = req.Date.UTC()
		}

		posted, err = s.post(ctx, tx, draft, actorID)
		return err
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			s.LogWarn(ctx, err, "Journal reversal rejected", slog.String("journal_id", journalID))
		} else {
			s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("journal_id", journalID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("journal_id", journalID),
		slog.String("reversal_id", posted.JournalID),
		slog.String("number", posted.Number()))
	return &posted, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.repo.FindJournalEntryByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	return s.listEntries(ctx, portsrepo.ListJournalEntriesFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
}

func (s *journalService) ListAccountEntries(ctx context.Context, accountID string, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	if _, err := s.repo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.listEntries(ctx, portsrepo.ListJournalEntriesFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
		AccountID: accountID,
	})
}

func (s *journalService) listEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter) (*dto.ListJournalEntriesResponse, error) {
	entries, nextToken, err := s.repo.ListJournalEntries(ctx, filter)
	if err != nil {
		if !apperrors.IsClientError(err) {
			s.LogError(ctx, err, "Failed to list journal entries",
				slog.Int("limit", filter.Limit),
				slog.String("account_id", filter.AccountID))
		}
		return nil, err
	}

	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}
