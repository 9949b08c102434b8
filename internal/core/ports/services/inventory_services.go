package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// InventoryWriterSvc defines write operations for stock
type InventoryWriterSvc interface {
	// AdjustStock applies one signed movement to an item's stock in a warehouse.
	AdjustStock(ctx context.Context, businessID string, req dto.AdjustStockRequest, userID string) (*domain.StockChange, error)
}

// InventoryReaderSvc defines read operations for stock
type InventoryReaderSvc interface {
	// GetWarehouseStock lists stock rows of a warehouse with their non-empty batches.
	GetWarehouseStock(ctx context.Context, businessID, warehouseID string) ([]domain.Stock, error)

	// ListMovements pages through the movement log of an item.
	ListMovements(ctx context.Context, businessID, warehouseID, itemID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)

	// StockAsOf rebuilds the quantity held at a point in time from the movement log.
	StockAsOf(ctx context.Context, businessID, warehouseID, itemID string, asOf time.Time) (*dto.StockAsOfResponse, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
type InventorySvcFacade interface {
	InventoryWriterSvc
	InventoryReaderSvc
}

// CatalogSvcFacade maintains the items and warehouses stock is held against.
type CatalogSvcFacade interface {
	// CreateItem adds a product or service. Services never track stock.
	CreateItem(ctx context.Context, businessID string, req dto.CreateItemRequest, userID string) (*domain.Item, error)
	GetItem(ctx context.Context, businessID, itemID string) (*domain.Item, error)
	ListItems(ctx context.Context, businessID string) (*dto.ListItemsResponse, error)

	CreateWarehouse(ctx context.Context, businessID string, req dto.CreateWarehouseRequest, userID string) (*domain.Warehouse, error)
	ListWarehouses(ctx context.Context, businessID string) (*dto.ListWarehousesResponse, error)
}
