package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type PgxBusinessRepository struct {
	BaseRepository
}

var _ portsrepo.BusinessRepositoryFacade = (*PgxBusinessRepository)(nil)

func (r *PgxBusinessRepository) FindBusinessByID(ctx context.Context, businessID string) (*domain.Business, error) {
	query := `
		SELECT business_id, name, industry_id, created_at, created_by, last_updated_at, last_updated_by
		FROM businesses
		WHERE business_id = $1;
	`
	var b domain.Business
	err := r.db.QueryRow(ctx, query, businessID).Scan(
		&b.BusinessID, &b.Name, &b.IndustryID,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapPgError(err, "failed to find business "+businessID)
	}
	return &b, nil
}

func (r *PgxBusinessRepository) SaveBusiness(ctx context.Context, b domain.Business) error {
	query := `
		INSERT INTO businesses (business_id, name, industry_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (business_id) DO UPDATE
		SET name = EXCLUDED.name, industry_id = EXCLUDED.industry_id,
		    last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query, b.BusinessID, b.Name, b.IndustryID, b.CreatedAt, b.CreatedBy, b.LastUpdatedAt, b.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "failed to save business "+b.BusinessID)
	}
	return nil
}

func (r *PgxBusinessRepository) FindIndustryByID(ctx context.Context, industryID string) (*domain.Industry, error) {
	query := `SELECT industry_id, name, default_config FROM industries WHERE industry_id = $1;`
	var i domain.Industry
	if err := r.db.QueryRow(ctx, query, industryID).Scan(&i.IndustryID, &i.Name, &i.DefaultConfig); err != nil {
		return nil, mapPgError(err, "failed to find industry "+industryID)
	}
	return &i, nil
}

func (r *PgxBusinessRepository) SaveIndustry(ctx context.Context, i domain.Industry) error {
	query := `
		INSERT INTO industries (industry_id, name, default_config)
		VALUES ($1, $2, $3)
		ON CONFLICT (industry_id) DO UPDATE SET name = EXCLUDED.name, default_config = EXCLUDED.default_config;
	`
	if _, err := r.db.Exec(ctx, query, i.IndustryID, i.Name, i.DefaultConfig); err != nil {
		return mapPgError(err, "failed to save industry "+i.IndustryID)
	}
	return nil
}

func (r *PgxBusinessRepository) FindWarehouseByID(ctx context.Context, businessID, warehouseID string) (*domain.Warehouse, error) {
	query := `
		SELECT warehouse_id, business_id, name, is_active
		FROM warehouses
		WHERE business_id = $1 AND warehouse_id = $2;
	`
	var w domain.Warehouse
	if err := r.db.QueryRow(ctx, query, businessID, warehouseID).Scan(&w.WarehouseID, &w.BusinessID, &w.Name, &w.IsActive); err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find warehouse %s", warehouseID))
	}
	return &w, nil
}

func (r *PgxBusinessRepository) ListWarehouses(ctx context.Context, businessID string) ([]domain.Warehouse, error) {
	rows, err := r.db.Query(ctx, `
		SELECT warehouse_id, business_id, name, is_active
		FROM warehouses
		WHERE business_id = $1
		ORDER BY name, warehouse_id;`, businessID)
	if err != nil {
		return nil, mapPgError(err, "failed to query warehouses")
	}
	defer rows.Close()

	warehouses := make([]domain.Warehouse, 0)
	for rows.Next() {
		var w domain.Warehouse
		if err := rows.Scan(&w.WarehouseID, &w.BusinessID, &w.Name, &w.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan warehouse row: %w", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating warehouse rows: %w", err)
	}
	return warehouses, nil
}

func (r *PgxBusinessRepository) SaveWarehouse(ctx context.Context, w domain.Warehouse) error {
	query := `
		INSERT INTO warehouses (warehouse_id, business_id, name, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (warehouse_id) DO UPDATE SET name = EXCLUDED.name, is_active = EXCLUDED.is_active;
	`
	if _, err := r.db.Exec(ctx, query, w.WarehouseID, w.BusinessID, w.Name, w.IsActive); err != nil {
		return mapPgError(err, "failed to save warehouse "+w.WarehouseID)
	}
	return nil
}
