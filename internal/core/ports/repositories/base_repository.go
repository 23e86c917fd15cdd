package repositories

import (
	"context"
)

// TxFunc is the unit of work executed inside one ledger transaction.
// Returning an error discards every write made through tx.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithTx runs fn inside a single atomic, serialized transaction.
	// Writes become visible only if fn returns nil.
	WithTx(ctx context.Context, fn TxFunc) error
}
