package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// LedgerSvc defines ledger-wide operations.
type LedgerSvc interface {
	// CheckIntegrity verifies that account totals balance and agree with the posted entries.
	CheckIntegrity(ctx context.Context) (*domain.IntegrityReport, error)
}
