package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository is the postgres-backed owner of ledger state.
// Reads outside WithTx go straight to the pool.
type PgxLedgerRepository struct {
	BaseRepository
	*ledgerQueries
}

// newPgxLedgerRepository creates a new repository for account and journal data.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerQueries:  &ledgerQueries{q: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// WithTx runs fn inside a serializable transaction and commits when fn succeeds.
// Serialization failures surface as apperrors.ErrConcurrentModification.
func (r *PgxLedgerRepository) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer r.Rollback(ctx, tx)

	if err := fn(ctx, &ledgerQueries{q: tx}); err != nil {
		return mapPgError(err)
	}
	return r.Commit(ctx, tx)
}

// SumLedgerTotals returns ledger-wide sums of account totals and posted lines.
func (r *ledgerQueries) SumLedgerTotals(ctx context.Context) (portsrepo.LedgerTotals, error) {
	var totals portsrepo.LedgerTotals

	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(debit_total), 0), COALESCE(SUM(credit_total), 0)
		FROM accounts;`).Scan(&totals.AccountCount, &totals.AccountDebits, &totals.AccountCredits)
	if err != nil {
		return portsrepo.LedgerTotals{}, apperrors.NewAppError(500, "failed to sum account totals", mapPgError(err))
	}

	err = r.q.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM journal_entries), COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines;`).Scan(&totals.EntryCount, &totals.EntryDebits, &totals.EntryCredits)
	if err != nil {
		return portsrepo.LedgerTotals{}, apperrors.NewAppError(500, "failed to sum journal lines", mapPgError(err))
	}
	return totals, nil
}
