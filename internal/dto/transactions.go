package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentRequest is one payment or refund.
type PaymentRequest struct {
	Method      domain.PaymentMethod `json:"method" validate:"required,oneof=CASH CARD BANK CREDIT"`
	Amount      decimal.Decimal      `json:"amount" validate:"dgt0,money"`
	ReferenceNo string               `json:"referenceNo" validate:"omitempty,max=128"`
}

// SaleItemRequest is one line of a sale.
type SaleItemRequest struct {
	ItemID         string           `json:"itemID" validate:"required"`
	Quantity       decimal.Decimal  `json:"quantity" validate:"dgt0"`
	UnitID         string           `json:"unitID" validate:"required"`
	UnitPrice      decimal.Decimal  `json:"unitPrice" validate:"dgte0"`
	DiscountAmount *decimal.Decimal `json:"discountAmount" validate:"omitempty,dgte0"`
	BatchNo        string           `json:"batchNo" validate:"omitempty,max=64"`
}

// CreateSaleRequest records a point-of-sale transaction.
type CreateSaleRequest struct {
	WarehouseID string            `json:"warehouseID" validate:"required"`
	Items       []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	Payments    []PaymentRequest  `json:"payments" validate:"dive"`
}

// PurchaseItemRequest is one line of a purchase.
type PurchaseItemRequest struct {
	ItemID         string           `json:"itemID" validate:"required"`
	Quantity       decimal.Decimal  `json:"quantity" validate:"dgt0"`
	UnitID         string           `json:"unitID" validate:"required"`
	UnitCost       decimal.Decimal  `json:"unitCost" validate:"dgte0"`
	TaxAmount      *decimal.Decimal `json:"taxAmount" validate:"omitempty,dgte0"`
	DiscountAmount *decimal.Decimal `json:"discountAmount" validate:"omitempty,dgte0"`
	BatchNo        string           `json:"batchNo" validate:"omitempty,max=64"`
	ExpiryDate     *time.Time       `json:"expiryDate"`
}

// CreatePurchaseRequest records goods bought from a supplier.
type CreatePurchaseRequest struct {
	WarehouseID       string                `json:"warehouseID" validate:"required"`
	SupplierInvoiceNo string                `json:"supplierInvoiceNo" validate:"omitempty,max=128"`
	Items             []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	Payments          []PaymentRequest      `json:"payments" validate:"dive"`
}

// ReturnItemRequest is the quantity of one sale line being returned.
type ReturnItemRequest struct {
	ItemID   string          `json:"itemID" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"dgt0"`
}

// ProcessReturnRequest reverses part or all of a sale.
type ProcessReturnRequest struct {
	SaleID  string              `json:"saleID" validate:"required"`
	Items   []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
	Refunds []PaymentRequest    `json:"refunds" validate:"dive"`
	Reason  string              `json:"reason" validate:"omitempty,max=512"`
}

// CreateAdjustmentRequest corrects stock by hand.
type CreateAdjustmentRequest struct {
	ItemID      string                `json:"itemID" validate:"required"`
	WarehouseID string                `json:"warehouseID" validate:"required"`
	Quantity    decimal.Decimal       `json:"quantity" validate:"dgt0"`
	Type        domain.AdjustmentType `json:"type" validate:"required,oneof=IN OUT"`
	Reason      string                `json:"reason" validate:"omitempty,max=512"`
	Value       *decimal.Decimal      `json:"value" validate:"omitempty,dgte0"`
}

// ToPayments converts payment requests to domain payments for a business.
func ToPayments(businessID string, reqs []PaymentRequest, newID func() string) []domain.Payment {
	out := make([]domain.Payment, len(reqs))
	for i, r := range reqs {
		out[i] = domain.Payment{
			PaymentID:   newID(),
			BusinessID:  businessID,
			Method:      r.Method,
			Amount:      r.Amount,
			ReferenceNo: r.ReferenceNo,
		}
	}
	return out
}
