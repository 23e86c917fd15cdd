package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// maxAccountDepth bounds parent-chain walks so a corrupted chart cannot loop forever.
const maxAccountDepth = 64

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	repo portsrepo.LedgerRepositoryWithTx
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.LedgerRepositoryWithTx, options ...ServiceOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(options...),
		repo:        repo,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	accountType, ok := domain.ParseAccountType(string(req.AccountType))
	if !ok {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:   s.NewID(),
		Code:        code,
		Name:        name,
		AccountType: accountType,
		Description: req.Description,
		IsActive:    true,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	if req.ParentAccountID != nil {
		account.ParentAccountID = strings.TrimSpace(*req.ParentAccountID)
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		existing, err := tx.FindAccountByCode(ctx, code)
		if err == nil && existing.IsActive {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateCode, code)
		}
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if account.ParentAccountID != "" {
			if err := checkParent(ctx, tx, account); err != nil {
				return err
			}
		}
		return tx.SaveAccount(ctx, account)
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			s.LogWarn(ctx, err, "Account creation rejected", slog.String("code", code))
		} else {
			s.LogError(ctx, err, "Failed to create account", slog.String("code", code))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

// checkParent verifies that account may hang under account.ParentAccountID.
func checkParent(ctx context.Context, tx portsrepo.AccountReader, account domain.Account) error {
	parent, err := tx.FindAccountByID(ctx, account.ParentAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrInvalidParent, account.ParentAccountID)
		}
		return err
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent account %s is inactive", apperrors.ErrInvalidParent, parent.Code)
	}
	if parent.AccountType != account.AccountType {
		return fmt.Errorf("%w: parent %s is %s, account is %s",
			apperrors.ErrInvalidParent, parent.Code, parent.AccountType, account.AccountType)
	}

	// Walk up from the parent; reaching the account itself means a cycle.
	current := parent
	for depth := 0; ; depth++ {
		if current.AccountID == account.AccountID {
			return fmt.Errorf("%w: account %s cannot be its own ancestor", apperrors.ErrInvalidParent, account.Code)
		}
		if current.ParentAccountID == "" {
			return nil
		}
		if depth >= maxAccountDepth {
			return fmt.Errorf("%w: parent chain of %s is too deep", apperrors.ErrInvalidParent, parent.Code)
		}
		current, err = tx.FindAccountByID(ctx, current.ParentAccountID)
		if err != nil {
			return err
		}
	}
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	var updated domain.Account
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		current, err := tx.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountInactive, current.Code)
		}

		acc := *current
		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: account name cannot be empty", apperrors.ErrValidation)
			}
			acc.Name = name
		}
		if req.Description != nil {
			acc.Description = *req.Description
		}
		if req.ParentAccountID != nil {
			acc.ParentAccountID = strings.TrimSpace(*req.ParentAccountID)
			if acc.ParentAccountID != "" && acc.ParentAccountID != current.ParentAccountID {
				if err := checkParent(ctx, tx, acc); err != nil {
					return err
				}
			}
		}

		acc.Version++
		acc.Touch(actorID, s.Now())
		if err := tx.UpdateAccount(ctx, acc); err != nil {
			return err
		}
		updated = acc
		return nil
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			s.LogWarn(ctx, err, "Account update rejected", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", accountID),
		slog.Int64("version", updated.Version))
	return &updated, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		current, err := tx.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return nil
		}
		if current.HasBalance() {
			return fmt.Errorf("%w: account %s has net balance %s",
				apperrors.ErrHasBalance, current.Code, current.NetBalance().StringFixed(2))
		}

		acc := *current
		acc.IsActive = false
		acc.Version++
		acc.Touch(actorID, s.Now())
		return tx.UpdateAccount(ctx, acc)
	})
	if err != nil {
		if apperrors.IsClientError(err) {
			s.LogWarn(ctx, err, "Account deactivation rejected", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	account, err := s.repo.FindAccountByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by code",
				slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, idOrCode string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, idOrCode)
	if err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return account, err
	}
	return s.GetAccountByCode(ctx, idOrCode)
}

func (s *accountService) GetAccountPath(ctx context.Context, accountID string) (domain.AccountPath, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	path := domain.AccountPath{*account}
	for current := *account; current.ParentAccountID != ""; {
		if len(path) > maxAccountDepth {
			return nil, fmt.Errorf("%w: parent chain of %s is too deep", apperrors.ErrInternal, account.Code)
		}
		parent, err := s.repo.FindAccountByID(ctx, current.ParentAccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to resolve parent account",
				slog.String("account_id", current.AccountID),
				slog.String("parent_id", current.ParentAccountID))
			return nil, err
		}
		path = append(path, *parent)
		current = *parent
	}

	// Collected leaf first; reverse to root first.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.ListAccountsFilter{
		Limit:           params.Limit,
		Offset:          params.Offset,
		IncludeInactive: params.IncludeInactive,
	}
	if params.AccountType != "" {
		accountType, ok := domain.ParseAccountType(params.AccountType)
		if !ok {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, params.AccountType)
		}
		filter.AccountType = accountType
	}

	accounts, err := s.repo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", params.Limit),
			slog.Int("offset", params.Offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}
	return accounts, nil
}
