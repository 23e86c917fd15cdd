package handlers_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	mockJournalService *MockJournalService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	router, v1 := newTestRouter()
	suite.router = router
	suite.mockAccountService = new(MockAccountService)
	suite.mockJournalService = new(MockJournalService)
	handlers.RegisterAccountRoutes(v1, suite.mockAccountService, suite.mockJournalService)
}

func (suite *AccountHandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
	suite.mockJournalService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) serve(method, url, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func sampleAccount(code string, accountType domain.AccountType) *domain.Account {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Account{
		AccountID:   uuid.NewString(),
		Code:        code,
		Name:        "Account " + code,
		AccountType: accountType,
		IsActive:    true,
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
		Version:     1,
		AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: "alice", LastUpdatedAt: now, LastUpdatedBy: "alice"},
	}
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	created := sampleAccount("1010", domain.Asset)
	suite.mockAccountService.On("CreateAccount",
		mock.Anything,
		mock.MatchedBy(func(req dto.CreateAccountRequest) bool {
			return req.Code == "1010" && req.Name == "Cash" && req.AccountType == domain.AccountType("asset")
		}),
		"alice",
	).Return(created, nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/accounts",
		`{"code":"1010","name":"Cash","accountType":"asset"}`,
		map[string]string{middleware.ActorHeader: "alice"})

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal(domain.Asset, resp.AccountType)
	suite.True(resp.NetBalance.IsZero())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DefaultActor() {
	suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, middleware.DefaultActor).
		Return(sampleAccount("2100", domain.Liability), nil).Once()

	w := suite.serve(http.MethodPost, "/api/v1/accounts",
		`{"code":"2100","name":"Payables","accountType":"LIABILITY"}`, nil)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_BindFailures() {
	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"code":`},
		{name: "missing code", body: `{"name":"Cash","accountType":"ASSET"}`},
		{name: "missing name", body: `{"code":"1010","accountType":"ASSET"}`},
		{name: "unknown type", body: `{"code":"1010","name":"Cash","accountType":"BANKING"}`},
		{name: "code too long", body: fmt.Sprintf(`{"code":"%s","name":"Cash","accountType":"ASSET"}`, strings.Repeat("9", 33))},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := suite.serve(http.MethodPost, "/api/v1/accounts", tc.body, nil)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(string(apperrors.KindValidation), suite.decodeError(w).Code)
		})
	}
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_ServiceErrors() {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   apperrors.Kind
	}{
		{name: "duplicate code", err: fmt.Errorf("%w: 1010", apperrors.ErrDuplicateCode), wantStatus: http.StatusConflict, wantCode: apperrors.KindDuplicateCode},
		{name: "invalid parent", err: fmt.Errorf("%w: type mismatch", apperrors.ErrInvalidParent), wantStatus: http.StatusBadRequest, wantCode: apperrors.KindInvalidParent},
		{name: "store failure", err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantCode: apperrors.KindInternal},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockAccountService.On("CreateAccount", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := suite.serve(http.MethodPost, "/api/v1/accounts", `{"code":"1010","name":"Cash","accountType":"ASSET"}`, nil)

			suite.Equal(tc.wantStatus, w.Code)
			body := suite.decodeError(w)
			suite.Equal(string(tc.wantCode), body.Code)
			if tc.wantStatus == http.StatusInternalServerError {
				suite.NotContains(body.Error, "connection reset")
			}
		})
	}
}

func (suite *AccountHandlerTestSuite) TestGetAccount_WithPath() {
	parent := sampleAccount("1000", domain.Asset)
	parent.Name = "Assets"
	child := sampleAccount("1010", domain.Asset)
	child.Name = "Cash"
	child.ParentAccountID = parent.AccountID
	child.DebitTotal = decimal.NewFromInt(150)
	child.CreditTotal = decimal.NewFromInt(40)

	suite.mockAccountService.On("GetAccount", mock.Anything, "1010").Return(child, nil).Once()
	suite.mockAccountService.On("GetAccountPath", mock.Anything, child.AccountID).
		Return(domain.AccountPath{*parent, *child}, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/accounts/1010", "", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("1000.1010", resp.FullCode)
	suite.Equal("Assets > Cash", resp.FullName)
	suite.True(decimal.NewFromInt(110).Equal(resp.NetBalance), "net balance %s", resp.NetBalance)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	suite.mockAccountService.On("GetAccount", mock.Anything, "missing").
		Return(nil, fmt.Errorf("%w: account missing", apperrors.ErrNotFound)).Once()

	w := suite.serve(http.MethodGet, "/api/v1/accounts/missing", "", nil)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(string(apperrors.KindNotFound), suite.decodeError(w).Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "GetAccountPath", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestListAccounts() {
	accounts := []domain.Account{*sampleAccount("1010", domain.Asset), *sampleAccount("5200", domain.Expense)}
	suite.mockAccountService.On("ListAccounts", mock.Anything, mock.MatchedBy(func(p dto.ListAccountsParams) bool {
		return p.Limit == 100 && p.Offset == 0 && p.IncludeInactive && p.AccountType == "expense"
	})).Return(accounts, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/accounts?includeInactive=true&type=expense", "", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_InvalidQuery() {
	for _, query := range []string{"limit=0", "limit=5000", "offset=-1", "type=bogus"} {
		suite.Run(query, func() {
			w := suite.serve(http.MethodGet, "/api/v1/accounts?"+query, "", nil)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount() {
	updated := sampleAccount("1010", domain.Asset)
	updated.Name = "Petty cash"
	suite.mockAccountService.On("UpdateAccount", mock.Anything, updated.AccountID,
		mock.MatchedBy(func(req dto.UpdateAccountRequest) bool {
			return req.Name != nil && *req.Name == "Petty cash" && req.ParentAccountID == nil
		}),
		"bob",
	).Return(updated, nil).Once()

	w := suite.serve(http.MethodPatch, "/api/v1/accounts/"+updated.AccountID, `{"name":"Petty cash"}`,
		map[string]string{middleware.ActorHeader: "bob"})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (suite *AccountHandlerTestSuite) TestUpdateAccount_Errors() {
	testCases := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "name too long", body: fmt.Sprintf(`{"name":"%s"}`, strings.Repeat("n", 256)), wantStatus: http.StatusBadRequest},
		{name: "inactive", body: `{"name":"x"}`, err: apperrors.ErrAccountInactive, wantStatus: http.StatusConflict},
		{name: "stale version", body: `{"name":"x"}`, err: apperrors.ErrConcurrentModification, wantStatus: http.StatusConflict},
		{name: "cycle", body: `{"parentAccountID":"child"}`, err: apperrors.ErrInvalidParent, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			if tc.err != nil {
				suite.mockAccountService.On("UpdateAccount", mock.Anything, "acc-1", mock.Anything, mock.Anything).Return(nil, tc.err).Once()
			}
			w := suite.serve(http.MethodPatch, "/api/v1/accounts/acc-1", tc.body, nil)
			suite.Equal(tc.wantStatus, w.Code, w.Body.String())
		})
	}
}

func (suite *AccountHandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "acc-1", "carol").Return(nil).Once()
	suite.mockAccountService.On("DeactivateAccount", mock.Anything, "acc-2", mock.Anything).
		Return(fmt.Errorf("%w: net balance 10.00", apperrors.ErrHasBalance)).Once()

	w := suite.serve(http.MethodDelete, "/api/v1/accounts/acc-1", "", map[string]string{middleware.ActorHeader: "carol"})
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())

	w = suite.serve(http.MethodDelete, "/api/v1/accounts/acc-2", "", nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(string(apperrors.KindHasBalance), suite.decodeError(w).Code)
}

func (suite *AccountHandlerTestSuite) TestListAccountEntries() {
	accountID := uuid.NewString()
	next := "token-2"
	expected := &dto.ListJournalEntriesResponse{
		Entries:   []dto.JournalEntryResponse{{JournalID: uuid.NewString(), EntryNumber: 3, Number: "JE-000003"}},
		NextToken: &next,
	}
	suite.mockJournalService.On("ListAccountEntries", mock.Anything, accountID,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "token-1"
		}),
	).Return(expected, nil).Once()

	w := suite.serve(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/entries?limit=5&nextToken=token-1", accountID), "", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListJournalEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Entries, 1)
	suite.Equal("JE-000003", resp.Entries[0].Number)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.mockAccountService.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestActorHeaderTooLong() {
	w := suite.serve(http.MethodDelete, "/api/v1/accounts/acc-1", "",
		map[string]string{middleware.ActorHeader: strings.Repeat("a", 200)})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
