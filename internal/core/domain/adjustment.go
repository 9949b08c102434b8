package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentType is the direction of a manual stock adjustment.
type AdjustmentType string

const (
	AdjustmentIn  AdjustmentType = "IN"
	AdjustmentOut AdjustmentType = "OUT"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentIn, AdjustmentOut:
		return true
	}
	return false
}

// StockAdjustment records a manual correction of stock and its valuation.
type StockAdjustment struct {
	AdjustmentID string          `json:"adjustmentID"`
	BusinessID   string          `json:"businessID"`
	WarehouseID  string          `json:"warehouseID"`
	ItemID       string          `json:"itemID"`
	Type         AdjustmentType  `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"` // Unsigned, base unit
	Reason       string          `json:"reason,omitempty"`
	Value        decimal.Decimal `json:"value"`
	JournalID    string          `json:"journalID,omitempty"` // Empty when the value was zero
	AdjustedAt   time.Time       `json:"adjustedAt"`
	AuditFields
}
