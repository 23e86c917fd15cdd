package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	BaseService
	repo portsrepo.LedgerReader
}

// NewLedgerService creates the service behind ledger-wide checks.
func NewLedgerService(repo portsrepo.LedgerReader, options ...ServiceOption) portssvc.LedgerSvc {
	return &ledgerService{
		BaseService: newBaseService(options...),
		repo:        repo,
	}
}

var _ portssvc.LedgerSvc = (*ledgerService)(nil)

// CheckIntegrity compares the sum of account totals with the sum of posted lines.
func (s *ledgerService) CheckIntegrity(ctx context.Context) (*domain.IntegrityReport, error) {
	totals, err := s.repo.SumLedgerTotals(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum ledger totals")
		return nil, err
	}

	report := &domain.IntegrityReport{
		CheckedAt:      s.Now(),
		AccountCount:   totals.AccountCount,
		EntryCount:     totals.EntryCount,
		AccountDebits:  totals.AccountDebits,
		AccountCredits: totals.AccountCredits,
		EntryDebits:    totals.EntryDebits,
		EntryCredits:   totals.EntryCredits,
		Issues:         []string{},
	}

	// Each entry may be out of balance by up to the tolerance, so the drift is bounded by the entry count.
	drift := totals.AccountDebits.Sub(totals.AccountCredits).Abs()
	if drift.GreaterThan(accounting.BalanceTolerance.Mul(decimal.NewFromInt(totals.EntryCount))) {
		report.Issues = append(report.Issues, fmt.Sprintf("account debits %s do not equal account credits %s",
			totals.AccountDebits.StringFixed(2), totals.AccountCredits.StringFixed(2)))
	}
	if !totals.AccountDebits.Equal(totals.EntryDebits) {
		report.Issues = append(report.Issues, fmt.Sprintf("account debits %s do not match posted debits %s",
			totals.AccountDebits.StringFixed(2), totals.EntryDebits.StringFixed(2)))
	}
	if !totals.AccountCredits.Equal(totals.EntryCredits) {
		report.Issues = append(report.Issues, fmt.Sprintf("account credits %s do not match posted credits %s",
			totals.AccountCredits.StringFixed(2), totals.EntryCredits.StringFixed(2)))
	}

	if report.Healthy() {
		s.LogDebug(ctx, "Ledger integrity check passed", slog.Int64("entries", report.EntryCount))
	} else {
		s.LogError(ctx, fmt.Errorf("%d integrity issues", len(report.Issues)), "Ledger integrity check failed",
			slog.Any("issues", report.Issues))
	}
	return report, nil
}
