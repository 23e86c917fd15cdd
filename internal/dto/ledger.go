package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IntegrityResponse defines the data returned by the ledger integrity check.
type IntegrityResponse struct {
	Healthy        bool            `json:"healthy"`
	CheckedAt      time.Time       `json:"checkedAt"`
	AccountCount   int64           `json:"accountCount"`
	EntryCount     int64           `json:"entryCount"`
	AccountDebits  decimal.Decimal `json:"accountDebits"`
	AccountCredits decimal.Decimal `json:"accountCredits"`
	EntryDebits    decimal.Decimal `json:"entryDebits"`
	EntryCredits   decimal.Decimal `json:"entryCredits"`
	Issues         []string        `json:"issues"`
}

// ToIntegrityResponse converts a domain.IntegrityReport to IntegrityResponse DTO.
func ToIntegrityResponse(r *domain.IntegrityReport) IntegrityResponse {
	issues := r.Issues
	if issues == nil {
		issues = []string{}
	}
	return IntegrityResponse{
		Healthy:        r.Healthy(),
		CheckedAt:      r.CheckedAt,
		AccountCount:   r.AccountCount,
		EntryCount:     r.EntryCount,
		AccountDebits:  r.AccountDebits,
		AccountCredits: r.AccountCredits,
		EntryDebits:    r.EntryDebits,
		EntryCredits:   r.EntryCredits,
		Issues:         issues,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
