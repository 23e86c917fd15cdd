package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountMapping_NullableParent(t *testing.T) {
	top := domain.Account{AccountID: "a", Code: "1000", AccountType: domain.Asset, IsActive: true}
	m := ToModelAccount(top)
	assert.False(t, m.ParentAccountID.Valid)
	assert.Equal(t, "", ToDomainAccount(m).ParentAccountID)

	child := domain.Account{AccountID: "b", Code: "1010", ParentAccountID: "a"}
	m = ToModelAccount(child)
	assert.True(t, m.ParentAccountID.Valid)
	assert.Equal(t, "a", ToDomainAccount(m).ParentAccountID)
}

func TestJournalEntryMapping_LineNumbers(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	entry := domain.JournalEntry{
		JournalID:    "j1",
		EntryNumber:  7,
		Date:         now,
		Description:  "Cash sale",
		Status:       domain.Posted,
		ReversalOfID: "j0",
		Lines: []domain.JournalLine{
			{AccountID: "cash", Debit: decimal.NewFromInt(10), RunningBalance: decimal.NewFromInt(10)},
			{AccountID: "sales", Credit: decimal.NewFromInt(10), RunningBalance: decimal.NewFromInt(10)},
		},
	}

	header, lines := ToModelJournalEntry(entry)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNo)
	assert.Equal(t, 2, lines[1].LineNo)
	assert.Equal(t, "j1", lines[1].JournalID)
	assert.True(t, header.ReversalOfID.Valid)

	back := ToDomainJournalEntry(header, lines)
	assert.Equal(t, entry.Description, back.Description)
	assert.Equal(t, "j0", back.ReversalOfID)
	assert.Equal(t, "sales", back.Lines[1].AccountID)
}
