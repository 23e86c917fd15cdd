package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/handlers"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckIntegrityHandler(t *testing.T) {
	checkedAt := time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)
	healthy := &domain.IntegrityReport{
		CheckedAt:      checkedAt,
		AccountCount:   4,
		EntryCount:     2,
		AccountDebits:  decimal.NewFromInt(250),
		AccountCredits: decimal.NewFromInt(250),
		EntryDebits:    decimal.NewFromInt(250),
		EntryCredits:   decimal.NewFromInt(250),
	}
	drifted := *healthy
	drifted.AccountCredits = decimal.NewFromInt(240)
	drifted.Issues = []string{"account debits 250 and credits 240 differ by 10"}

	testCases := []struct {
		name        string
		report      *domain.IntegrityReport
		err         error
		wantStatus  int
		wantHealthy bool
		wantIssues  int
	}{
		{name: "healthy ledger", report: healthy, wantStatus: http.StatusOK, wantHealthy: true},
		{name: "drifted ledger", report: &drifted, wantStatus: http.StatusInternalServerError, wantIssues: 1},
		{name: "store failure", err: errors.New("timeout"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, v1 := newTestRouter()
			svc := new(MockLedgerService)
			svc.On("CheckIntegrity", mock.Anything).Return(tc.report, tc.err).Once()
			handlers.RegisterLedgerRoutes(v1, svc)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/integrity", nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			svc.AssertExpectations(t)
			if tc.report == nil {
				var body dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotContains(t, body.Error, "timeout")
				return
			}

			var resp dto.IntegrityResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantHealthy, resp.Healthy)
			assert.Len(t, resp.Issues, tc.wantIssues)
			assert.Equal(t, int64(4), resp.AccountCount)
			assert.True(t, checkedAt.Equal(resp.CheckedAt))
		})
	}
}
