package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StockReader defines read operations for stock data
type StockReader interface {
	// FindStock returns the stock row of an item in a warehouse, or apperrors.ErrNotFound.
	FindStock(ctx context.Context, businessID, warehouseID, itemID string) (*domain.Stock, error)

	// ListWarehouseStock returns every stock row of a warehouse with its non-empty batches.
	ListWarehouseStock(ctx context.Context, businessID, warehouseID string) ([]domain.Stock, error)

	// ListMovements pages through an item's movements oldest first.
	ListMovements(ctx context.Context, businessID, warehouseID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)

	// SumMovementsUntil totals signed movement quantities created at or before asOf.
	SumMovementsUntil(ctx context.Context, businessID, warehouseID, itemID string, asOf time.Time) (decimal.Decimal, error)
}

// StockWriter defines write operations for stock data
type StockWriter interface {
	// LockOrCreateStock returns the stock row locked for update, creating it at zero when absent.
	LockOrCreateStock(ctx context.Context, businessID, warehouseID, itemID, userID string, now time.Time) (*domain.Stock, error)

	// UpdateStockQuantity overwrites the running total of a stock row.
	UpdateStockQuantity(ctx context.Context, stockID string, quantity decimal.Decimal, userID string, now time.Time) error

	// ListBatchesForUpdate returns every batch of a stock row locked for update.
	ListBatchesForUpdate(ctx context.Context, stockID string) ([]domain.StockBatch, error)

	// SaveBatch persists a new batch.
	SaveBatch(ctx context.Context, batch domain.StockBatch) error

	// UpdateBatchQuantities overwrites batch quantities keyed by batch ID.
	UpdateBatchQuantities(ctx context.Context, quantities map[string]decimal.Decimal) error

	// SaveMovement appends a movement to the log.
	SaveMovement(ctx context.Context, movement domain.StockMovement) error
}

// StockRepositoryFacade combines all stock-related repository interfaces
type StockRepositoryFacade interface {
	StockReader
	StockWriter
}
