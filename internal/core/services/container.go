package services

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
)

// NewServiceContainer wires every service against the single ledger store.
func NewServiceContainer(repo portsrepo.LedgerRepositoryWithTx, options ...ServiceOption) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repo, options...),
		Journal: NewJournalService(repo, options...),
		Ledger:  NewLedgerService(repo, options...),
	}
}
