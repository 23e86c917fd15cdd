package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted JournalStatus = "POSTED"
)

// JournalEntry is a row of the journal_entries table.
type JournalEntry struct {
	JournalID    string          `db:"journal_id"`
	EntryNumber  int64           `db:"entry_number"`
	EntryDate    time.Time       `db:"entry_date"`
	Description  string          `db:"description"`
	Reference    string          `db:"reference"`
	Status       JournalStatus   `db:"status"`
	TotalDebit   decimal.Decimal `db:"total_debit"`
	TotalCredit  decimal.Decimal `db:"total_credit"`
	ReversalOfID sql.NullString  `db:"reversal_of_id"`
	PostedAt     time.Time       `db:"posted_at"`
	PostedBy     string          `db:"posted_by"`
	AuditFields
}

// JournalLine is a row of the journal_lines table.
type JournalLine struct {
	JournalID      string          `db:"journal_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Notes          string          `db:"notes"`
	RunningBalance decimal.Decimal `db:"running_balance"`
}
