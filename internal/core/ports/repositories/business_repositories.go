package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// BusinessRepositoryFacade covers tenants, their industry templates and warehouses.
type BusinessRepositoryFacade interface {
	FindBusinessByID(ctx context.Context, businessID string) (*domain.Business, error)
	SaveBusiness(ctx context.Context, business domain.Business) error
	FindIndustryByID(ctx context.Context, industryID string) (*domain.Industry, error)
	SaveIndustry(ctx context.Context, industry domain.Industry) error
	FindWarehouseByID(ctx context.Context, businessID, warehouseID string) (*domain.Warehouse, error)
	SaveWarehouse(ctx context.Context, warehouse domain.Warehouse) error
	ListWarehouses(ctx context.Context, businessID string) ([]domain.Warehouse, error)
}

// ConfigRepositoryFacade covers tenant feature and rule overrides.
type ConfigRepositoryFacade interface {
	ListFeatures(ctx context.Context, businessID string) ([]domain.BusinessFeature, error)
	// FindFeature returns apperrors.ErrNotFound when the business has no override for key.
	FindFeature(ctx context.Context, businessID, key string) (*domain.BusinessFeature, error)
	UpsertFeature(ctx context.Context, feature domain.BusinessFeature) error

	ListRules(ctx context.Context, businessID string) ([]domain.BusinessRule, error)
	// FindRule returns apperrors.ErrNotFound when the business has no override for key.
	FindRule(ctx context.Context, businessID, key string) (*domain.BusinessRule, error)
	UpsertRule(ctx context.Context, rule domain.BusinessRule) error
}
