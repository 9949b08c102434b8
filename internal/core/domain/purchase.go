package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is goods or services bought from a supplier.
type Purchase struct {
	PurchaseID        string          `json:"purchaseID"`
	BusinessID        string          `json:"businessID"`
	WarehouseID       string          `json:"warehouseID"`
	ReferenceNumber   string          `json:"referenceNumber"`
	SupplierInvoiceNo string          `json:"supplierInvoiceNo,omitempty"`
	PurchaseDate      time.Time       `json:"purchaseDate"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxTotal          decimal.Decimal `json:"taxTotal"`
	DiscountTotal     decimal.Decimal `json:"discountTotal"`
	Total             decimal.Decimal `json:"total"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	Items             []PurchaseItem  `json:"items"`
	Payments          []Payment       `json:"payments"`
	JournalID         string          `json:"journalID"`
	AuditFields
}

// PurchaseItem is one costed line of a purchase.
type PurchaseItem struct {
	PurchaseItemID string          `json:"purchaseItemID"`
	PurchaseID     string          `json:"purchaseID"`
	ItemID         string          `json:"itemID"`
	UnitID         string          `json:"unitID"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	NetAmount      decimal.Decimal `json:"netAmount"` // UnitCost × Quantity − DiscountAmount
	Total          decimal.Decimal `json:"total"`
	TrackStock     bool            `json:"trackStock"`
	BatchNo        string          `json:"batchNo,omitempty"`
	ExpiryDate     *time.Time      `json:"expiryDate,omitempty"`
}

// Balance is the part of the purchase still owed to the supplier.
func (p Purchase) Balance() decimal.Decimal {
	return p.Total.Sub(p.AmountPaid)
}
