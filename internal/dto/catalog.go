package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateItemRequest adds a product or service to the catalogue.
type CreateItemRequest struct {
	Name       string           `json:"name" validate:"required,max=256"`
	Kind       domain.ItemKind  `json:"kind" validate:"required,oneof=PRODUCT SERVICE"`
	UnitID     string           `json:"unitID" validate:"required"`
	TrackStock *bool            `json:"trackStock"` // Defaults to true for products; services never track stock
	TaxRate    *decimal.Decimal `json:"taxRate" validate:"omitempty,dgte0"`
	TaxType    domain.TaxType   `json:"taxType" validate:"omitempty,oneof=INCLUSIVE EXCLUSIVE"`
	CostPrice  decimal.Decimal  `json:"costPrice" validate:"dgte0"`
	SalePrice  decimal.Decimal  `json:"salePrice" validate:"dgte0"`
}

// ListItemsResponse is the catalogue of a business.
type ListItemsResponse struct {
	Items []domain.Item `json:"items"`
}

// CreateWarehouseRequest adds a stock location.
type CreateWarehouseRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

// ListWarehousesResponse lists the stock locations of a business.
type ListWarehousesResponse struct {
	Warehouses []domain.Warehouse `json:"warehouses"`
}
