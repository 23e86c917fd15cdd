package mapping

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row and line rows.
func ToModelJournalEntry(d domain.JournalEntry) (models.JournalEntry, []models.JournalLine) {
	header := models.JournalEntry{
		JournalID:    d.JournalID,
		EntryNumber:  d.EntryNumber,
		EntryDate:    d.Date,
		Description:  d.Description,
		Reference:    d.Reference,
		Status:       models.JournalStatus(d.Status),
		TotalDebit:   d.TotalDebit,
		TotalCredit:  d.TotalCredit,
		ReversalOfID: ToNullString(d.ReversalOfID),
		PostedAt:     d.PostedAt,
		PostedBy:     d.PostedBy,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	lines := make([]models.JournalLine, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = models.JournalLine{
			JournalID:      d.JournalID,
			LineNo:         i + 1,
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Notes:          l.Notes,
			RunningBalance: l.RunningBalance,
		}
	}
	return header, lines
}

// ToDomainJournalEntry converts a header row and its lines (ordered by line_no) to a domain JournalEntry.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	d := domain.JournalEntry{
		JournalID:    m.JournalID,
		EntryNumber:  m.EntryNumber,
		Date:         m.EntryDate,
		Description:  m.Description,
		Reference:    m.Reference,
		Status:       domain.JournalStatus(m.Status),
		TotalDebit:   m.TotalDebit,
		TotalCredit:  m.TotalCredit,
		ReversalOfID: m.ReversalOfID.String,
		PostedAt:     m.PostedAt,
		PostedBy:     m.PostedBy,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
		Lines:        make([]domain.JournalLine, len(lines)),
	}
	for i, l := range lines {
		d.Lines[i] = domain.JournalLine{
			AccountID:      l.AccountID,
			Debit:          l.Debit,
			Credit:         l.Credit,
			Notes:          l.Notes,
			RunningBalance: l.RunningBalance,
		}
	}
	return d
}
