package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleRepositoryFacade persists sales with their lines and payments.
type SaleRepositoryFacade interface {
	SaveSale(ctx context.Context, sale domain.Sale) error
	FindSaleByID(ctx context.Context, businessID, saleID string) (*domain.Sale, error)
}

// PurchaseRepositoryFacade persists purchases with their lines and payments.
type PurchaseRepositoryFacade interface {
	SavePurchase(ctx context.Context, purchase domain.Purchase) error
	FindPurchaseByID(ctx context.Context, businessID, purchaseID string) (*domain.Purchase, error)
}

// ReturnRepositoryFacade persists sale returns.
type ReturnRepositoryFacade interface {
	SaveReturn(ctx context.Context, ret domain.SaleReturn) error
	// ReturnedQuantities totals previously returned quantities per item for a sale.
	ReturnedQuantities(ctx context.Context, businessID, saleID string) (map[string]decimal.Decimal, error)
}

// AdjustmentRepositoryFacade persists manual stock adjustments.
type AdjustmentRepositoryFacade interface {
	SaveAdjustment(ctx context.Context, adj domain.StockAdjustment) error
}
