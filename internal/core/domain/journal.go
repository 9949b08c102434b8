package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceType names the domain event a journal entry or stock movement was derived from.
type ReferenceType string

const (
	RefPOS        ReferenceType = "POS"
	RefPurchase   ReferenceType = "PURCHASE"
	RefReturn     ReferenceType = "RETURN"
	RefAdjustment ReferenceType = "ADJUSTMENT"
	RefManual     ReferenceType = "MANUAL"
	RefReversal   ReferenceType = "REVERSAL"
)

// JournalEntry is an immutable, balanced double-entry record.
type JournalEntry struct {
	EntryID       string          `json:"entryID"`
	BusinessID    string          `json:"businessID"`
	EntryDate     time.Time       `json:"entryDate"`
	Description   string          `json:"description"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	Amount        decimal.Decimal `json:"amount"` // Sum of the debit side
	ReversalOfID  *string         `json:"reversalOfID,omitempty"`
	Lines         []JournalLine   `json:"lines"`
	AuditFields
}

// JournalLine posts an amount to one account on exactly one side.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	AccountID      string          `json:"accountID"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Notes          string          `json:"notes"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this line
}

// TotalDebit sums the debit side of the entry.
func (e JournalEntry) TotalDebit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Debit)
	}
	return sum
}

// TotalCredit sums the credit side of the entry.
func (e JournalEntry) TotalCredit() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.Credit)
	}
	return sum
}

// Reversed returns the mirror image of the entry's lines: every debit becomes a credit and vice versa.
func (e JournalEntry) Reversed() []JournalLine {
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			Notes:     l.Notes,
		}
	}
	return lines
}
