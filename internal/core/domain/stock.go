package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment, MovementReturn:
		return true
	}
	return false
}

// SignedDelta applies the movement's direction to a quantity.
// OUT is always negative, IN and RETURN always positive, ADJUSTMENT keeps the given sign.
func (t MovementType) SignedDelta(qty decimal.Decimal) decimal.Decimal {
	switch t {
	case MovementOut:
		return qty.Abs().Neg()
	case MovementIn, MovementReturn:
		return qty.Abs()
	case MovementAdjustment:
		return qty
	}
	return qty
}

// Stock is the running quantity of one item in one warehouse, in the item's base unit.
type Stock struct {
	StockID     string          `json:"stockID"`
	BusinessID  string          `json:"businessID"`
	WarehouseID string          `json:"warehouseID"`
	ItemID      string          `json:"itemID"`
	Quantity    decimal.Decimal `json:"quantity"`
	Batches     []StockBatch    `json:"batches,omitempty"`
	AuditFields
}

// StockBatch is a dated sub-quantity of a Stock record.
type StockBatch struct {
	BatchID    string          `json:"batchID"`
	StockID    string          `json:"stockID"`
	BusinessID string          `json:"businessID"`
	BatchNo    string          `json:"batchNo"`
	ExpiryDate *time.Time      `json:"expiryDate,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unitCost"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// StockMovement is the append-only audit record of one stock change.
type StockMovement struct {
	MovementID    string          `json:"movementID"`
	BusinessID    string          `json:"businessID"`
	WarehouseID   string          `json:"warehouseID"`
	ItemID        string          `json:"itemID"`
	Type          MovementType    `json:"type"`
	ReferenceType ReferenceType   `json:"referenceType"`
	ReferenceID   string          `json:"referenceID"`
	Quantity      decimal.Decimal `json:"quantity"` // Signed, base unit
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// BatchAllocation is the quantity taken from one batch by an outbound movement.
type BatchAllocation struct {
	BatchID   string          `json:"batchID"`
	Quantity  decimal.Decimal `json:"quantity"`
	Remaining decimal.Decimal `json:"remaining"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

// StockChange is the outcome of one stock mutation.
type StockChange struct {
	Stock       Stock             `json:"stock"`
	Movement    StockMovement     `json:"movement"`
	Batch       *StockBatch       `json:"batch,omitempty"`       // Set for inbound movements with batch tracking
	Allocations []BatchAllocation `json:"allocations,omitempty"` // Set for outbound movements with batch tracking
	Shortfall   decimal.Decimal   `json:"shortfall"`             // Outbound quantity no batch could cover
	Cost        decimal.Decimal   `json:"cost"`                  // FIFO cost of the outbound quantity
}
