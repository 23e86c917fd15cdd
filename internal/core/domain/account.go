package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypes lists every valid account type in chart order.
var AccountTypes = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// ParseAccountType normalises s and reports whether it names a known type.
func ParseAccountType(s string) (AccountType, bool) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether increases to t are recorded as debits.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a named bucket in the chart of accounts.
// DebitTotal and CreditTotal only ever grow, and only through posting.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID"` // empty for top-level accounts
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"`
	DebitTotal      decimal.Decimal `json:"debitTotal"`
	CreditTotal     decimal.Decimal `json:"creditTotal"`
	Version         int64           `json:"version"`
	AuditFields
}

// NetBalance is derived from the running totals according to the account's normal side.
func (a Account) NetBalance() decimal.Decimal {
	if a.AccountType.IsDebitNormal() {
		return a.DebitTotal.Sub(a.CreditTotal)
	}
	return a.CreditTotal.Sub(a.DebitTotal)
}

// HasBalance reports whether the account carries a nonzero net balance.
func (a Account) HasBalance() bool {
	return !a.NetBalance().IsZero()
}

// AccountPath is the ancestor chain of an account, root first.
type AccountPath []Account

// FullCode joins the codes of the chain, e.g. "1000.1010".
func (p AccountPath) FullCode() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.Code
	}
	return strings.Join(parts, ".")
}

// FullName joins the names of the chain, e.g. "Assets > Cash".
func (p AccountPath) FullName() string {
	parts := make([]string, len(p))
	for i, a := range p {
		parts[i] = a.Name
	}
	return strings.Join(parts, " > ")
}
