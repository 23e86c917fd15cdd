package repositories

// LedgerReader is everything that can be read outside a transaction.
type LedgerReader interface {
	AccountReader
	JournalReader
	IntegrityReader
}

// LedgerTx is the view of the ledger available inside WithTx.
// Reads observe the transaction's own uncommitted writes.
type LedgerTx interface {
	AccountRepositoryFacade
	JournalRepositoryFacade
	IntegrityReader
}

// LedgerRepositoryWithTx is the single owner of ledger state: committed reads plus
// the transaction boundary every mutation goes through.
type LedgerRepositoryWithTx interface {
	LedgerReader
	TransactionManager
}
