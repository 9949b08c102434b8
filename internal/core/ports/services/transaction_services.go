package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// SaleSvcFacade records point-of-sale transactions.
type SaleSvcFacade interface {
	CreateSale(ctx context.Context, businessID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)
	GetSale(ctx context.Context, businessID, saleID string) (*domain.Sale, error)
}

// PurchaseSvcFacade records supplier purchases.
type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, businessID string, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error)
}

// ReturnSvcFacade records sale returns.
type ReturnSvcFacade interface {
	ProcessReturn(ctx context.Context, businessID string, req dto.ProcessReturnRequest, userID string) (*domain.SaleReturn, error)
}

// AdjustmentSvcFacade records manual stock corrections.
type AdjustmentSvcFacade interface {
	CreateAdjustment(ctx context.Context, businessID string, req dto.CreateAdjustmentRequest, userID string) (*domain.StockAdjustment, error)
}
