package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/core/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChart = `
accounts:
  - code: "1000"
    name: Assets
    type: ASSET
  - code: "1010"
    name: Cash
    type: asset
    parent: "1000"
  - code: "4000"
    name: Revenue
    type: REVENUE
  - code: "4100"
    name: Sales
    type: REVENUE
    parent: "4000"
    description: Product sales
`

func TestParseChart(t *testing.T) {
	chart, err := ParseChart([]byte(sampleChart))
	require.NoError(t, err)
	require.Len(t, chart.Accounts, 4)
	assert.Equal(t, "1000", chart.Accounts[1].Parent)
	assert.Equal(t, "Product sales", chart.Accounts[3].Description)
}

func TestParseChart_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"unknown type", "accounts:\n  - {code: \"1\", name: A, type: SUSPENSE}\n", "unknown type"},
		{"missing name", "accounts:\n  - {code: \"1\", type: ASSET}\n", "code and name are required"},
		{"duplicate code", "accounts:\n  - {code: \"1\", name: A, type: ASSET}\n  - {code: \"1\", name: B, type: ASSET}\n", "duplicate code"},
		{"unknown field", "accounts:\n  - {code: \"1\", name: A, type: ASSET, currency: USD}\n", "failed to decode chart"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChart([]byte(tt.doc))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApply_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := services.NewAccountService(memory.NewStore())
	chart, err := ParseChart([]byte(sampleChart))
	require.NoError(t, err)

	res, err := Apply(ctx, svc, chart, "seed")
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 4}, res)

	cash, err := svc.GetAccountByCode(ctx, "1010")
	require.NoError(t, err)
	assert.Equal(t, domain.Asset, cash.AccountType)
	path, err := svc.GetAccountPath(ctx, cash.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "Assets > Cash", path.FullName())

	res, err = Apply(ctx, svc, chart, "seed")
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 4}, res)

	all, err := svc.ListAccounts(ctx, dto.ListAccountsParams{Limit: 100, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestApply_UnknownParent(t *testing.T) {
	svc := services.NewAccountService(memory.NewStore())
	chart := &Chart{Accounts: []ChartAccount{{Code: "1010", Name: "Cash", Type: "ASSET", Parent: "1000"}}}

	_, err := Apply(context.Background(), svc, chart, "seed")

	assert.ErrorIs(t, err, apperrors.ErrInvalidParent)
}

func TestLoadChart_BundledFile(t *testing.T) {
	chart, err := LoadChart(filepath.Join("..", "..", "..", "configs", "chart_of_accounts.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, chart.Accounts)

	_, err = LoadChart(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
