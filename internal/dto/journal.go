package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one line of a journal entry request.
// The account may be given by ID or by code; ID wins when both are set.
type JournalLineRequest struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// PostJournalEntryRequest defines the data needed to post a journal entry.
// Description and line rules are enforced by the journal validator, not by binding,
// so that callers always receive the specific failure kind.
type PostJournalEntryRequest struct {
	Date        *time.Time           `json:"date"` // defaults to the posting time
	Description string               `json:"description"`
	Reference   string               `json:"reference" binding:"max=100"`
	Lines       []JournalLineRequest `json:"lines" binding:"dive"`
}

// ReverseJournalEntryRequest defines optional overrides for a reversing entry.
type ReverseJournalEntryRequest struct {
	Date        *time.Time `json:"date"`
	Description string     `json:"description"` // defaults to "Reversal of JE-000001"
	Reference   string     `json:"reference" binding:"max=100"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Notes          string          `json:"notes,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalID    string                `json:"journalID"`
	EntryNumber  int64                 `json:"entryNumber"`
	Number       string                `json:"number"`
	Date         time.Time             `json:"date"`
	Description  string                `json:"description"`
	Reference    string                `json:"reference,omitempty"`
	Status       domain.JournalStatus  `json:"status"`
	TotalDebit   decimal.Decimal       `json:"totalDebit"`
	TotalCredit  decimal.Decimal       `json:"totalCredit"`
	ReversalOfID string                `json:"reversalOfID,omitempty"`
	PostedAt     time.Time             `json:"postedAt"`
	PostedBy     string                `json:"postedBy"`
	Lines        []JournalLineResponse `json:"lines"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Notes:          l.Notes,
			RunningBalance: l.RunningBalance,
		}
	}
	return JournalEntryResponse{
		JournalID:    e.JournalID,
		EntryNumber:  e.EntryNumber,
		Number:       e.Number(),
		Date:         e.Date,
		Description:  e.Description,
		Reference:    e.Reference,
		Status:       e.Status,
		TotalDebit:   e.TotalDebit,
		TotalCredit:  e.TotalCredit,
		ReversalOfID: e.ReversalOfID,
		PostedAt:     e.PostedAt,
		PostedBy:     e.PostedBy,
		Lines:        lines,
	}
}

// ToJournalEntryResponses converts a slice of domain.JournalEntry.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	res := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalEntryResponse(&entries[i])
	}
	return res
}

// ListJournalEntriesParams defines query parameters for listing journal entries.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListJournalEntriesResponse wraps a page of journal entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ValidateJournalEntryResponse is the result of a dry-run validation.
type ValidateJournalEntryResponse struct {
	Valid       bool            `json:"valid"`
	Code        string          `json:"code,omitempty"`
	Error       string          `json:"error,omitempty"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}
