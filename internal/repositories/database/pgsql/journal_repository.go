package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/models"
	"github.com/SscSPs/erp_ledger/internal/utils/mapping"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const (
	journalColumns = `journal_id, entry_number, entry_date, description, reference, status,
		total_debit, total_credit, reversal_of_id, posted_at, posted_by,
		created_at, created_by, last_updated_at, last_updated_by`
	lineColumns     = `journal_id, line_no, account_id, debit, credit, notes, running_balance`
	defaultPageSize = 20
)

func scanJournalHeader(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.ReversalOfID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// findLines loads the lines of the given journals, grouped by journal ID and ordered by line number.
func (r *ledgerQueries) findLines(ctx context.Context, journalIDs []string) (map[string][]models.JournalLine, error) {
	out := make(map[string][]models.JournalLine, len(journalIDs))
	if len(journalIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE journal_id = ANY($1) ORDER BY journal_id, line_no;`
	rows, err := r.q.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal lines", mapPgError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.JournalID, &l.LineNo, &l.AccountID, &l.Debit, &l.Credit, &l.Notes, &l.RunningBalance); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line row", err)
		}
		out[l.JournalID] = append(out[l.JournalID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal line rows", mapPgError(err))
	}
	return out, nil
}

// FindJournalEntryByID retrieves a journal entry and its lines.
func (r *ledgerQueries) FindJournalEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE journal_id = $1;`
	header, err := scanJournalHeader(r.q.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry "+journalID, mapPgError(err))
	}

	lines, err := r.findLines(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(header, lines[journalID])
	return &entry, nil
}

// FindReversalOf retrieves the entry that reverses journalID.
func (r *ledgerQueries) FindReversalOf(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	var reversingID string
	err := r.q.QueryRow(ctx, `SELECT journal_id FROM journal_entries WHERE reversal_of_id = $1;`, journalID).Scan(&reversingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no reversal of journal entry %s", apperrors.ErrNotFound, journalID)
		}
		return nil, apperrors.NewAppError(500, "failed to find reversal of "+journalID, mapPgError(err))
	}
	return r.FindJournalEntryByID(ctx, reversingID)
}

// ListJournalEntries retrieves a page of entries, newest first, using entry-number tokens.
func (r *ledgerQueries) ListJournalEntries(ctx context.Context, filter portsrepo.ListJournalEntriesFilter) ([]domain.JournalEntry, *string, error) {
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

	query := `SELECT ` + journalColumns + ` FROM journal_entries e
		WHERE ($1::bigint = 0 OR e.entry_number < $1)
		  AND ($2 = '' OR EXISTS (SELECT 1 FROM journal_lines l WHERE l.journal_id = e.journal_id AND l.account_id = $2))
		ORDER BY e.entry_number DESC
		LIMIT $3;`
	// Fetch one extra row to know whether another page exists.
	rows, err := r.q.Query(ctx, query, before, filter.AccountID, limit+1)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journal entries", mapPgError(err))
	}
	var headers []models.JournalEntry
	for rows.Next() {
		h, err := scanJournalHeader(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		headers = append(headers, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", mapPgError(err))
	}

	var nextToken *string
	if len(headers) > limit {
		headers = headers[:limit]
		token := pagination.EncodeEntryNumberToken(headers[len(headers)-1].EntryNumber)
		nextToken = &token
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.JournalID])
	}
	return entries, nextToken, nil
}

// MaxEntryNumber returns the highest assigned entry number, or 0 for an empty ledger.
func (r *ledgerQueries) MaxEntryNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(entry_number), 0) FROM journal_entries;`).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to read max entry number", mapPgError(err))
	}
	return n, nil
}

// SaveJournalEntry inserts the entry header and its lines.
func (r *ledgerQueries) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	header, lines := mapping.ToModelJournalEntry(entry)

	query := `INSERT INTO journal_entries (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.q.Exec(ctx, query,
		header.JournalID,
		header.EntryNumber,
		header.EntryDate,
		header.Description,
		header.Reference,
		header.Status,
		header.TotalDebit,
		header.TotalCredit,
		header.ReversalOfID,
		header.PostedAt,
		header.PostedBy,
		header.CreatedAt,
		header.CreatedBy,
		header.LastUpdatedAt,
		header.LastUpdatedBy,
	)
	if err != nil {
		if code, constraint, ok := pgErrorCode(err); ok && code == pgUniqueViolation {
			if constraint == reversalOfConstraint {
				return fmt.Errorf("%w: journal entry %s", apperrors.ErrAlreadyReversed, header.ReversalOfID.String)
			}
			return fmt.Errorf("%w: journal entry %s (%s)", apperrors.ErrDuplicate, header.JournalID, entry.Number())
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+header.JournalID, mapPgError(err))
	}

	batch := &pgx.Batch{}
	lineQuery := `INSERT INTO journal_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	for _, l := range lines {
		batch.Queue(lineQuery, l.JournalID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Notes, l.RunningBalance)
	}
	br := r.q.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal entry "+header.JournalID, mapPgError(err))
	}
	return nil
}
