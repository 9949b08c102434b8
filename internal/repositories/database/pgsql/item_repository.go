package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxItemRepository struct {
	BaseRepository
}

var _ portsrepo.ItemRepositoryFacade = (*PgxItemRepository)(nil)

const itemColumns = `item_id, business_id, name, kind, track_stock, unit_id, tax_rate, tax_type,
	cost_price, sale_price, created_at, created_by, last_updated_at, last_updated_by`

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		item    domain.Item
		taxRate decimal.NullDecimal
		taxType *string
	)
	err := row.Scan(
		&item.ItemID, &item.BusinessID, &item.Name, &item.Kind, &item.TrackStock, &item.UnitID,
		&taxRate, &taxType, &item.CostPrice, &item.SalePrice,
		&item.CreatedAt, &item.CreatedBy, &item.LastUpdatedAt, &item.LastUpdatedBy,
	)
	if err != nil {
		return item, err
	}
	if taxRate.Valid && taxType != nil {
		item.Tax = &domain.TaxRule{Rate: taxRate.Decimal, Type: domain.TaxType(*taxType)}
	}
	return item, nil
}

func (r *PgxItemRepository) FindItemByID(ctx context.Context, businessID, itemID string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE business_id = $1 AND item_id = $2;`
	item, err := scanItem(r.db.QueryRow(ctx, query, businessID, itemID))
	if err != nil {
		return nil, mapPgError(err, "failed to find item "+itemID)
	}
	return &item, nil
}

// ListItems retrieves a business's catalog ordered by name.
func (r *PgxItemRepository) ListItems(ctx context.Context, businessID string) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE business_id = $1 ORDER BY name, item_id;`, businessID)
	if err != nil {
		return nil, mapPgError(err, "failed to query items")
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}
	return items, nil
}

func (r *PgxItemRepository) SaveItem(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	var (
		taxRate decimal.NullDecimal
		taxType *string
	)
	if item.Tax != nil {
		taxRate = decimal.NewNullDecimal(item.Tax.Rate)
		t := string(item.Tax.Type)
		taxType = &t
	}
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (item_id) DO UPDATE
		SET name = EXCLUDED.name, kind = EXCLUDED.kind, track_stock = EXCLUDED.track_stock, unit_id = EXCLUDED.unit_id,
		    tax_rate = EXCLUDED.tax_rate, tax_type = EXCLUDED.tax_type, cost_price = EXCLUDED.cost_price,
		    sale_price = EXCLUDED.sale_price, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		item.ItemID, item.BusinessID, item.Name, item.Kind, item.TrackStock, item.UnitID, taxRate, taxType,
		item.CostPrice, item.SalePrice, item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "failed to save item "+item.ItemID)
	}
	return nil
}

func (r *PgxItemRepository) UpdateItemCostPrice(ctx context.Context, businessID, itemID string, cost decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE items SET cost_price = $3, last_updated_at = $4, last_updated_by = $5
		WHERE business_id = $1 AND item_id = $2;
	`
	ct, err := r.db.Exec(ctx, query, businessID, itemID, cost, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update cost price of item "+itemID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxUnitRepository struct {
	BaseRepository
}

var _ portsrepo.UnitRepositoryFacade = (*PgxUnitRepository)(nil)

func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, businessID, unitID string) (*domain.Unit, error) {
	query := `SELECT unit_id, business_id, name, symbol FROM units WHERE business_id = $1 AND unit_id = $2;`
	var u domain.Unit
	if err := r.db.QueryRow(ctx, query, businessID, unitID).Scan(&u.UnitID, &u.BusinessID, &u.Name, &u.Symbol); err != nil {
		return nil, mapPgError(err, "failed to find unit "+unitID)
	}
	return &u, nil
}

func (r *PgxUnitRepository) SaveUnit(ctx context.Context, u domain.Unit) error {
	query := `
		INSERT INTO units (unit_id, business_id, name, symbol) VALUES ($1, $2, $3, $4)
		ON CONFLICT (unit_id) DO UPDATE SET name = EXCLUDED.name, symbol = EXCLUDED.symbol;
	`
	if _, err := r.db.Exec(ctx, query, u.UnitID, u.BusinessID, u.Name, u.Symbol); err != nil {
		return mapPgError(err, "failed to save unit "+u.UnitID)
	}
	return nil
}

func (r *PgxUnitRepository) FindConversion(ctx context.Context, businessID, fromUnitID, toUnitID string) (*domain.UnitConversion, error) {
	query := `
		SELECT conversion_id, business_id, from_unit_id, to_unit_id, multiplier
		FROM unit_conversions
		WHERE business_id = $1 AND from_unit_id = $2 AND to_unit_id = $3;
	`
	var c domain.UnitConversion
	err := r.db.QueryRow(ctx, query, businessID, fromUnitID, toUnitID).Scan(&c.ConversionID, &c.BusinessID, &c.FromUnitID, &c.ToUnitID, &c.Multiplier)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find conversion %s->%s", fromUnitID, toUnitID))
	}
	return &c, nil
}

func (r *PgxUnitRepository) SaveConversion(ctx context.Context, c domain.UnitConversion) error {
	query := `
		INSERT INTO unit_conversions (conversion_id, business_id, from_unit_id, to_unit_id, multiplier)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (business_id, from_unit_id, to_unit_id) DO UPDATE SET multiplier = EXCLUDED.multiplier;
	`
	if _, err := r.db.Exec(ctx, query, c.ConversionID, c.BusinessID, c.FromUnitID, c.ToUnitID, c.Multiplier); err != nil {
		return mapPgError(err, "failed to save conversion "+c.ConversionID)
	}
	return nil
}
