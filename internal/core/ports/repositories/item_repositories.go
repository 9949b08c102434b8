package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemRepositoryFacade covers the product and service catalogue.
type ItemRepositoryFacade interface {
	FindItemByID(ctx context.Context, businessID, itemID string) (*domain.Item, error)
	SaveItem(ctx context.Context, item domain.Item) error
	// ListItems returns the catalogue of a business ordered by name.
	ListItems(ctx context.Context, businessID string) ([]domain.Item, error)
	UpdateItemCostPrice(ctx context.Context, businessID, itemID string, cost decimal.Decimal, userID string, now time.Time) error
}

// UnitRepositoryFacade covers units of measure and their conversions.
type UnitRepositoryFacade interface {
	FindUnitByID(ctx context.Context, businessID, unitID string) (*domain.Unit, error)
	SaveUnit(ctx context.Context, unit domain.Unit) error
	// FindConversion returns the stored conversion for the ordered pair (from, to),
	// or apperrors.ErrNotFound.
	FindConversion(ctx context.Context, businessID, fromUnitID, toUnitID string) (*domain.UnitConversion, error)
	SaveConversion(ctx context.Context, conversion domain.UnitConversion) error
}
