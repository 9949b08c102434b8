package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleReturn reverses part or all of a sale.
type SaleReturn struct {
	ReturnID    string          `json:"returnID"`
	BusinessID  string          `json:"businessID"`
	SaleID      string          `json:"saleID"`
	WarehouseID string          `json:"warehouseID"`
	ReturnDate  time.Time       `json:"returnDate"`
	Reason      string          `json:"reason,omitempty"`
	NetTotal    decimal.Decimal `json:"netTotal"`
	TaxTotal    decimal.Decimal `json:"taxTotal"`
	Total       decimal.Decimal `json:"total"`
	Items       []ReturnItem    `json:"items"`
	Refunds     []Payment       `json:"refunds"`
	JournalID   string          `json:"journalID"`
	AuditFields
}

// ReturnItem is the returned quantity of one sale line with its prorated amounts.
type ReturnItem struct {
	ReturnItemID string          `json:"returnItemID"`
	ReturnID     string          `json:"returnID"`
	ItemID       string          `json:"itemID"`
	Quantity     decimal.Decimal `json:"quantity"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Total        decimal.Decimal `json:"total"`
}
