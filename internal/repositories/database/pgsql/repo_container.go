package pgsql

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewLedgerRepository returns the postgres ledger store backed by dbPool.
func NewLedgerRepository(dbPool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return newPgxLedgerRepository(dbPool)
}
