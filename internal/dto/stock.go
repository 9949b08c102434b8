package dto

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is the low-level stock mutation.
type AdjustStockRequest struct {
	ItemID        string               `json:"itemID" validate:"required"`
	WarehouseID   string               `json:"warehouseID" validate:"required"`
	Quantity      decimal.Decimal      `json:"quantity"`
	UnitID        string               `json:"unitID" validate:"required"`
	Type          domain.MovementType  `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT RETURN"`
	ReferenceType domain.ReferenceType `json:"referenceType" validate:"required"`
	ReferenceID   string               `json:"referenceID"`
	BatchNo       string               `json:"batchNo" validate:"omitempty,max=64"`
	ExpiryDate    *time.Time           `json:"expiryDate"`
	UnitCost      *decimal.Decimal     `json:"unitCost" validate:"omitempty,dgte0"`
}

// ListMovementsParams pages through stock movements.
type ListMovementsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListMovementsResponse is one page of movements.
type ListMovementsResponse struct {
	Movements []domain.StockMovement `json:"movements"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// StockAsOfResponse is a point-in-time stock quantity.
type StockAsOfResponse struct {
	ItemID      string          `json:"itemID"`
	WarehouseID string          `json:"warehouseID"`
	AsOf        time.Time       `json:"asOf"`
	Quantity    decimal.Decimal `json:"quantity"`
}
