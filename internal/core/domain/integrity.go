package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntegrityReport summarises a ledger-wide consistency check.
// A healthy ledger has equal debit and credit sums across accounts, and those
// sums match the sums of all posted entry lines.
type IntegrityReport struct {
	CheckedAt      time.Time       `json:"checkedAt"`
	AccountCount   int64           `json:"accountCount"`
	EntryCount     int64           `json:"entryCount"`
	AccountDebits  decimal.Decimal `json:"accountDebits"`
	AccountCredits decimal.Decimal `json:"accountCredits"`
	EntryDebits    decimal.Decimal `json:"entryDebits"`
	EntryCredits   decimal.Decimal `json:"entryCredits"`
	Issues         []string        `json:"issues"`
}

// Healthy reports whether the check found no issues.
func (r IntegrityReport) Healthy() bool {
	return len(r.Issues) == 0
}
