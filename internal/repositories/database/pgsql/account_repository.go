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
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, code, name, account_type, parent_account_id, description, is_active,
	debit_total, credit_total, version, created_at, created_by, last_updated_at, last_updated_by`

// ledgerQueries runs ledger statements against either the pool or an open transaction.
type ledgerQueries struct {
	q dbtx
}

var _ portsrepo.LedgerTx = (*ledgerQueries)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.ParentAccountID,
		&m.Description,
		&m.IsActive,
		&m.DebitTotal,
		&m.CreditTotal,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *ledgerQueries) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", mapPgError(err))
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", mapPgError(err))
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *ledgerQueries) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.q.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, apperrors.NewAppError(500, "failed to find account "+accountID, mapPgError(err))
	}
	return &acc, nil
}

// FindAccountByCode retrieves the active holder of code, else the latest inactive one.
func (r *ledgerQueries) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1
		ORDER BY is_active DESC, last_updated_at DESC, account_id DESC LIMIT 1;`
	acc, err := scanAccount(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, apperrors.NewAppError(500, "failed to find account by code "+code, mapPgError(err))
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *ledgerQueries) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	return toAccountMap(accounts), nil
}

// FindAccountsByIDsForUpdate locks the rows in account_id order so concurrent postings cannot deadlock.
func (r *ledgerQueries) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`
	accounts, err := r.queryAccounts(ctx, query, accountIDs)
	if err != nil {
		return nil, err
	}
	return toAccountMap(accounts), nil
}

func toAccountMap(accounts []domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out
}

// ListAccounts retrieves accounts ordered by code.
func (r *ledgerQueries) ListAccounts(ctx context.Context, filter portsrepo.ListAccountsFilter) ([]domain.Account, error) {
	var limit any
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE ($1 OR is_active) AND ($2 = '' OR account_type = $2)
		ORDER BY code, account_id
		LIMIT $3 OFFSET $4;`
	accounts, err := r.queryAccounts(ctx, query, filter.IncludeInactive, string(filter.AccountType), limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *ledgerQueries) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.q.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.ParentAccountID,
		m.Description,
		m.IsActive,
		m.DebitTotal,
		m.CreditTotal,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if code, constraint, ok := pgErrorCode(err); ok && code == pgUniqueViolation {
			if constraint == activeCodeConstraint {
				return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, m.Code)
			}
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return apperrors.NewAppError(500, "failed to save account "+m.AccountID, mapPgError(err))
	}
	return nil
}

// UpdateAccount stores the mutable account fields using an optimistic version check.
func (r *ledgerQueries) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, description = $3, parent_account_id = $4, is_active = $5,
		    version = $6, last_updated_at = $7, last_updated_by = $8
		WHERE account_id = $1 AND version = $6 - 1;
	`
	tag, err := r.q.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Description,
		m.ParentAccountID,
		m.IsActive,
		m.Version,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if code, constraint, ok := pgErrorCode(err); ok && code == pgUniqueViolation && constraint == activeCodeConstraint {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, m.Code)
		}
		return apperrors.NewAppError(500, "failed to update account "+m.AccountID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrStale(ctx, m.AccountID)
	}
	return nil
}

// UpdateAccountBalances stores new running totals, one version-checked UPDATE per account.
func (r *ledgerQueries) UpdateAccountBalances(ctx context.Context, accounts []domain.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	query := `
		UPDATE accounts
		SET debit_total = $2, credit_total = $3, version = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1 AND version = $4 - 1;
	`
	batch := &pgx.Batch{}
	for _, acc := range accounts {
		batch.Queue(query, acc.AccountID, acc.DebitTotal, acc.CreditTotal, acc.Version, acc.LastUpdatedAt, acc.LastUpdatedBy)
	}

	br := r.q.SendBatch(ctx, batch)
	for _, acc := range accounts {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return apperrors.NewAppError(500, "failed to update balance of account "+acc.AccountID, mapPgError(err))
		}
		if tag.RowsAffected() == 0 {
			_ = br.Close()
			return fmt.Errorf("%w: account %s changed since it was read", apperrors.ErrConcurrentModification, acc.AccountID)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute balance update batch", mapPgError(err))
	}
	return nil
}

func (r *ledgerQueries) missingOrStale(ctx context.Context, accountID string) error {
	if _, err := r.FindAccountByID(ctx, accountID); err != nil {
		return err
	}
	return fmt.Errorf("%w: account %s changed since it was read", apperrors.ErrConcurrentModification, accountID)
}
