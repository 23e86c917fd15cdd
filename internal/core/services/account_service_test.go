package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/memory"
	"github.com/stretchr/testify/suite"
)

// AccountServiceTestSuite defines the suite for AccountService tests
type AccountServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *memory.Store
	svc   portssvc.AccountSvcFacade
}

// SetupTest runs before each test in the suite
func (s *AccountServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	s.store = memory.NewStore()
	s.svc = services.NewAccountService(s.store, services.WithClock(func() time.Time { return s.now }))
}

// TestAccountService runs the entire suite
func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) create(code, name string, accountType domain.AccountType, parentID string) *domain.Account {
	req := dto.CreateAccountRequest{Code: code, Name: name, AccountType: accountType}
	if parentID != "" {
		req.ParentAccountID = &parentID
	}
	acc, err := s.svc.CreateAccount(s.ctx, req, testActor)
	s.Require().NoError(err)
	return acc
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	acc, err := s.svc.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:        " 1010 ",
		Name:        "Cash",
		AccountType: "asset",
		Description: "Petty cash",
	}, testActor)
	s.Require().NoError(err)

	s.NotEmpty(acc.AccountID)
	s.Equal("1010", acc.Code)
	s.Equal(domain.Asset, acc.AccountType)
	s.True(acc.IsActive)
	s.True(acc.DebitTotal.IsZero())
	s.True(acc.CreditTotal.IsZero())
	s.True(acc.NetBalance().IsZero())
	s.Equal(int64(0), acc.Version)
	s.Equal(s.now, acc.CreatedAt)
	s.Equal(testActor, acc.CreatedBy)

	stored, err := s.store.FindAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.Equal(*acc, *stored)
}

func (s *AccountServiceTestSuite) TestCreateAccount_Rejections() {
	assets := s.create("1000", "Assets", domain.Asset, "")
	s.create("1010", "Cash", domain.Asset, assets.AccountID)

	missing := "no-such-account"
	tests := []struct {
		name    string
		req     dto.CreateAccountRequest
		wantErr error
	}{
		{"duplicate active code", dto.CreateAccountRequest{Code: "1010", Name: "Cash again", AccountType: domain.Asset}, apperrors.ErrDuplicateCode},
		{"unknown type", dto.CreateAccountRequest{Code: "9000", Name: "Odd", AccountType: "SUSPENSE"}, apperrors.ErrValidation},
		{"blank name", dto.CreateAccountRequest{Code: "9001", Name: "  ", AccountType: domain.Asset}, apperrors.ErrValidation},
		{"missing parent", dto.CreateAccountRequest{Code: "1020", Name: "Bank", AccountType: domain.Asset, ParentAccountID: &missing}, apperrors.ErrInvalidParent},
		{"parent of another type", dto.CreateAccountRequest{Code: "2100", Name: "Payables", AccountType: domain.Liability, ParentAccountID: &assets.AccountID}, apperrors.ErrInvalidParent},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			acc, err := s.svc.CreateAccount(s.ctx, tt.req, testActor)
			s.Nil(acc)
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *AccountServiceTestSuite) TestCreateAccount_CodeReusableAfterDeactivation() {
	old := s.create("1010", "Cash", domain.Asset, "")
	s.Require().NoError(s.svc.DeactivateAccount(s.ctx, old.AccountID, testActor))

	s.now = s.now.Add(time.Hour)
	replacement := s.create("1010", "Cash (new)", domain.Asset, "")
	s.NotEqual(old.AccountID, replacement.AccountID)

	found, err := s.svc.GetAccountByCode(s.ctx, "1010")
	s.Require().NoError(err)
	s.Equal(replacement.AccountID, found.AccountID)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount() {
	acc := s.create("1010", "Cash", domain.Asset, "")

	s.now = s.now.Add(time.Minute)
	s.Require().NoError(s.svc.DeactivateAccount(s.ctx, acc.AccountID, "auditor"))

	stored, err := s.svc.GetAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.False(stored.IsActive)
	s.Equal(int64(1), stored.Version)
	s.Equal("auditor", stored.LastUpdatedBy)
	s.Equal(s.now, stored.LastUpdatedAt)

	// Already inactive: nothing to do.
	s.NoError(s.svc.DeactivateAccount(s.ctx, acc.AccountID, "auditor"))
	stored, err = s.svc.GetAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.Equal(int64(1), stored.Version)

	s.ErrorIs(s.svc.DeactivateAccount(s.ctx, "missing", testActor), apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_HasBalance() {
	f := newLedgerFixture(s.T(), s.store)
	entry, err := f.services.Journal.PostJournalEntry(s.ctx, dto.PostJournalEntryRequest{
		Description: "Opening sale",
		Lines: []dto.JournalLineRequest{
			debitLine(f.cash.AccountID, "10"),
			creditLine(f.sales.AccountID, "10"),
		},
	}, testActor)
	s.Require().NoError(err)

	err = s.svc.DeactivateAccount(s.ctx, f.cash.AccountID, testActor)
	s.ErrorIs(err, apperrors.ErrHasBalance)
	cash, err := s.svc.GetAccountByID(s.ctx, f.cash.AccountID)
	s.Require().NoError(err)
	s.True(cash.IsActive)

	_, err = f.services.Journal.ReverseJournalEntry(s.ctx, entry.JournalID, dto.ReverseJournalEntryRequest{}, testActor)
	s.Require().NoError(err)

	// Totals are nonzero but the net balance is back to zero.
	s.NoError(s.svc.DeactivateAccount(s.ctx, f.cash.AccountID, testActor))
}

func (s *AccountServiceTestSuite) TestUpdateAccount() {
	assets := s.create("1000", "Assets", domain.Asset, "")
	current := s.create("1100", "Current assets", domain.Asset, "")
	cash := s.create("1110", "Cash", domain.Asset, assets.AccountID)

	name := "Cash on hand"
	description := "Tills and safes"
	updated, err := s.svc.UpdateAccount(s.ctx, cash.AccountID, dto.UpdateAccountRequest{
		Name:            &name,
		Description:     &description,
		ParentAccountID: &current.AccountID,
	}, "editor")
	s.Require().NoError(err)

	s.Equal(name, updated.Name)
	s.Equal(description, updated.Description)
	s.Equal(current.AccountID, updated.ParentAccountID)
	s.Equal(int64(1), updated.Version)
	s.Equal("editor", updated.LastUpdatedBy)
	s.Equal("1110", updated.Code)

	top := ""
	updated, err = s.svc.UpdateAccount(s.ctx, cash.AccountID, dto.UpdateAccountRequest{ParentAccountID: &top}, "editor")
	s.Require().NoError(err)
	s.Empty(updated.ParentAccountID)
	s.Equal(int64(2), updated.Version)
}

func (s *AccountServiceTestSuite) TestUpdateAccount_Rejections() {
	assets := s.create("1000", "Assets", domain.Asset, "")
	cash := s.create("1010", "Cash", domain.Asset, assets.AccountID)
	petty := s.create("1011", "Petty cash", domain.Asset, cash.AccountID)
	expenses := s.create("5000", "Expenses", domain.Expense, "")
	closed := s.create("1090", "Closed", domain.Asset, "")
	s.Require().NoError(s.svc.DeactivateAccount(s.ctx, closed.AccountID, testActor))

	blank := " "
	tests := []struct {
		name      string
		accountID string
		req       dto.UpdateAccountRequest
		wantErr   error
	}{
		{"cycle through grandchild", assets.AccountID, dto.UpdateAccountRequest{ParentAccountID: &petty.AccountID}, apperrors.ErrInvalidParent},
		{"own parent", cash.AccountID, dto.UpdateAccountRequest{ParentAccountID: &cash.AccountID}, apperrors.ErrInvalidParent},
		{"parent of another type", cash.AccountID, dto.UpdateAccountRequest{ParentAccountID: &expenses.AccountID}, apperrors.ErrInvalidParent},
		{"inactive parent", cash.AccountID, dto.UpdateAccountRequest{ParentAccountID: &closed.AccountID}, apperrors.ErrInvalidParent},
		{"blank name", cash.AccountID, dto.UpdateAccountRequest{Name: &blank}, apperrors.ErrValidation},
		{"inactive account", closed.AccountID, dto.UpdateAccountRequest{Name: &blank}, apperrors.ErrAccountInactive},
		{"missing account", "missing", dto.UpdateAccountRequest{}, apperrors.ErrNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			acc, err := s.svc.UpdateAccount(s.ctx, tt.accountID, tt.req, testActor)
			s.Nil(acc)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	stored, err := s.svc.GetAccountByID(s.ctx, assets.AccountID)
	s.Require().NoError(err)
	s.Equal(int64(0), stored.Version)
}

func (s *AccountServiceTestSuite) TestGetAccount_ByIDOrCode() {
	acc := s.create("4100", "Sales", domain.Revenue, "")

	byID, err := s.svc.GetAccount(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.Equal(acc.AccountID, byID.AccountID)

	byCode, err := s.svc.GetAccount(s.ctx, "4100")
	s.Require().NoError(err)
	s.Equal(acc.AccountID, byCode.AccountID)

	_, err = s.svc.GetAccount(s.ctx, "nope")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestGetAccountPath() {
	assets := s.create("1000", "Assets", domain.Asset, "")
	current := s.create("1100", "Current assets", domain.Asset, assets.AccountID)
	cash := s.create("1110", "Cash", domain.Asset, current.AccountID)

	path, err := s.svc.GetAccountPath(s.ctx, cash.AccountID)
	s.Require().NoError(err)

	s.Require().Len(path, 3)
	s.Equal(assets.AccountID, path[0].AccountID)
	s.Equal("1000.1100.1110", path.FullCode())
	s.Equal("Assets > Current assets > Cash", path.FullName())

	path, err = s.svc.GetAccountPath(s.ctx, assets.AccountID)
	s.Require().NoError(err)
	s.Equal("1000", path.FullCode())
}

func (s *AccountServiceTestSuite) TestListAccounts() {
	s.create("4100", "Sales", domain.Revenue, "")
	s.create("1010", "Cash", domain.Asset, "")
	closed := s.create("1020", "Old bank", domain.Asset, "")
	s.Require().NoError(s.svc.DeactivateAccount(s.ctx, closed.AccountID, testActor))

	accounts, err := s.svc.ListAccounts(s.ctx, dto.ListAccountsParams{Limit: 100})
	s.Require().NoError(err)
	s.Require().Len(accounts, 2)
	s.Equal("1010", accounts[0].Code)
	s.Equal("4100", accounts[1].Code)

	accounts, err = s.svc.ListAccounts(s.ctx, dto.ListAccountsParams{Limit: 100, IncludeInactive: true, AccountType: "asset"})
	s.Require().NoError(err)
	s.Len(accounts, 2)

	accounts, err = s.svc.ListAccounts(s.ctx, dto.ListAccountsParams{Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(accounts, 1)
	s.Equal("4100", accounts[0].Code)

	_, err = s.svc.ListAccounts(s.ctx, dto.ListAccountsParams{Limit: 10, AccountType: "bogus"})
	s.ErrorIs(err, apperrors.ErrValidation)
}
