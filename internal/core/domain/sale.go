package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a completed point-of-sale transaction.
type Sale struct {
	SaleID        string          `json:"saleID"`
	BusinessID    string          `json:"businessID"`
	WarehouseID   string          `json:"warehouseID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	SaleDate      time.Time       `json:"saleDate"`
	Subtotal      decimal.Decimal `json:"subtotal"` // Σ net before discounts
	TaxTotal      decimal.Decimal `json:"taxTotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	Total         decimal.Decimal `json:"total"`
	Items         []SaleItem      `json:"items"`
	Payments      []Payment       `json:"payments"`
	JournalID     string          `json:"journalID"`
	AuditFields
}

// SaleItem is one priced line of a sale. Quantity is in the unit the line was sold in.
type SaleItem struct {
	SaleItemID     string          `json:"saleItemID"`
	SaleID         string          `json:"saleID"`
	ItemID         string          `json:"itemID"`
	UnitID         string          `json:"unitID"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"` // Per unit
	NetAmount      decimal.Decimal `json:"netAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	LineDiscount   decimal.Decimal `json:"lineDiscount"` // DiscountAmount × Quantity
	Total          decimal.Decimal `json:"total"`
	BatchNo        string          `json:"batchNo,omitempty"`
}
