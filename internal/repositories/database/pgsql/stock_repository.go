package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/inventory"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxStockRepository struct {
	BaseRepository
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

const stockColumns = `stock_id, business_id, warehouse_id, item_id, quantity, created_at, created_by, last_updated_at, last_updated_by`

func scanStock(row rowScanner) (domain.Stock, error) {
	var s domain.Stock
	err := row.Scan(&s.StockID, &s.BusinessID, &s.WarehouseID, &s.ItemID, &s.Quantity,
		&s.CreatedAt, &s.CreatedBy, &s.LastUpdatedAt, &s.LastUpdatedBy)
	return s, err
}

const batchColumns = `batch_id, stock_id, business_id, batch_no, expiry_date, quantity, unit_cost, created_at`

func scanBatch(row rowScanner) (domain.StockBatch, error) {
	var b domain.StockBatch
	err := row.Scan(&b.BatchID, &b.StockID, &b.BusinessID, &b.BatchNo, &b.ExpiryDate, &b.Quantity, &b.UnitCost, &b.CreatedAt)
	return b, err
}

func (r *PgxStockRepository) queryBatches(ctx context.Context, query string, args ...any) ([]domain.StockBatch, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query batches")
	}
	defer rows.Close()

	var out []domain.StockBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch row: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch rows: %w", err)
	}
	inventory.SortForConsumption(out)
	return out, nil
}

func (r *PgxStockRepository) FindStock(ctx context.Context, businessID, warehouseID, itemID string) (*domain.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE business_id = $1 AND warehouse_id = $2 AND item_id = $3;`
	s, err := scanStock(r.db.QueryRow(ctx, query, businessID, warehouseID, itemID))
	if err != nil {
		return nil, mapPgError(err, "failed to find stock of item "+itemID)
	}
	s.Batches, err = r.queryBatches(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE stock_id = $1 AND quantity > 0;`, s.StockID)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxStockRepository) ListWarehouseStock(ctx context.Context, businessID, warehouseID string) ([]domain.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE business_id = $1 AND warehouse_id = $2 ORDER BY item_id;`
	rows, err := r.db.Query(ctx, query, businessID, warehouseID)
	if err != nil {
		return nil, mapPgError(err, "failed to query warehouse stock")
	}
	stocks := make([]domain.Stock, 0)
	ids := make([]string, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan stock row: %w", err)
		}
		stocks = append(stocks, s)
		ids = append(ids, s.StockID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock rows: %w", err)
	}
	if len(ids) == 0 {
		return stocks, nil
	}

	batches, err := r.queryBatches(ctx, `SELECT `+batchColumns+` FROM stock_batches WHERE stock_id = ANY($1) AND quantity > 0;`, ids)
	if err != nil {
		return nil, err
	}
	byStock := make(map[string][]domain.StockBatch, len(stocks))
	for _, b := range batches {
		byStock[b.StockID] = append(byStock[b.StockID], b)
	}
	for i := range stocks {
		stocks[i].Batches = byStock[stocks[i].StockID]
	}
	return stocks, nil
}

func (r *PgxStockRepository) ListMovements(ctx context.Context, businessID, warehouseID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	query := `
		SELECT movement_id, business_id, warehouse_id, item_id, movement_type, reference_type, reference_id, quantity, created_at, created_by
		FROM stock_movements
		WHERE business_id = $1 AND warehouse_id = $2 AND item_id = $3
	`
	args := []any{businessID, warehouseID, itemID}
	if nextToken != nil {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, movement_id) > ($4, $5)`
		args = append(args, cursorAt, cursorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at, movement_id LIMIT %d;`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query stock movements")
	}
	defer rows.Close()

	movements := make([]domain.StockMovement, 0, limit)
	for rows.Next() {
		var m domain.StockMovement
		if err := rows.Scan(&m.MovementID, &m.BusinessID, &m.WarehouseID, &m.ItemID, &m.Type,
			&m.ReferenceType, &m.ReferenceID, &m.Quantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating movement rows: %w", err)
	}

	if len(movements) <= limit {
		return movements, nil, nil
	}
	movements = movements[:limit]
	last := movements[limit-1]
	token := pagination.EncodeToken(last.CreatedAt, last.MovementID)
	return movements, &token, nil
}

func (r *PgxStockRepository) SumMovementsUntil(ctx context.Context, businessID, warehouseID, itemID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements
		WHERE business_id = $1 AND warehouse_id = $2 AND item_id = $3 AND created_at <= $4;
	`
	var sum decimal.Decimal
	if err := r.db.QueryRow(ctx, query, businessID, warehouseID, itemID, asOf).Scan(&sum); err != nil {
		return decimal.Zero, mapPgError(err, "failed to sum stock movements")
	}
	return sum, nil
}

func (r *PgxStockRepository) LockOrCreateStock(ctx context.Context, businessID, warehouseID, itemID, userID string, now time.Time) (*domain.Stock, error) {
	insert := `
		INSERT INTO stocks (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $5, $6)
		ON CONFLICT (business_id, warehouse_id, item_id) DO NOTHING;
	`
	if _, err := r.db.Exec(ctx, insert, uuid.NewString(), businessID, warehouseID, itemID, now, userID); err != nil {
		return nil, mapPgError(err, "failed to create stock of item "+itemID)
	}
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE business_id = $1 AND warehouse_id = $2 AND item_id = $3 FOR UPDATE;`
	s, err := scanStock(r.db.QueryRow(ctx, query, businessID, warehouseID, itemID))
	if err != nil {
		return nil, mapPgError(err, "failed to lock stock of item "+itemID)
	}
	return &s, nil
}

func (r *PgxStockRepository) UpdateStockQuantity(ctx context.Context, stockID string, quantity decimal.Decimal, userID string, now time.Time) error {
	query := `UPDATE stocks SET quantity = $2, last_updated_at = $3, last_updated_by = $4 WHERE stock_id = $1;`
	ct, err := r.db.Exec(ctx, query, stockID, quantity, now, userID)
	if err != nil {
		return mapPgError(err, "failed to update stock "+stockID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxStockRepository) ListBatchesForUpdate(ctx context.Context, stockID string) ([]domain.StockBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM stock_batches WHERE stock_id = $1 ORDER BY batch_id FOR UPDATE;`
	return r.queryBatches(ctx, query, stockID)
}

func (r *PgxStockRepository) SaveBatch(ctx context.Context, b domain.StockBatch) error {
	query := `INSERT INTO stock_batches (` + batchColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`
	_, err := r.db.Exec(ctx, query, b.BatchID, b.StockID, b.BusinessID, b.BatchNo, b.ExpiryDate, b.Quantity, b.UnitCost, b.CreatedAt)
	if err != nil {
		return mapPgError(err, "failed to save batch "+b.BatchNo)
	}
	return nil
}

func (r *PgxStockRepository) UpdateBatchQuantities(ctx context.Context, quantities map[string]decimal.Decimal) error {
	batch := &pgx.Batch{}
	for id, qty := range quantities {
		batch.Queue(`UPDATE stock_batches SET quantity = $2 WHERE batch_id = $1;`, id, qty)
	}
	return sendBatch(ctx, r.db, batch, "failed to update batch quantities")
}

func (r *PgxStockRepository) SaveMovement(ctx context.Context, m domain.StockMovement) error {
	query := `
		INSERT INTO stock_movements (movement_id, business_id, warehouse_id, item_id, movement_type, reference_type, reference_id, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query, m.MovementID, m.BusinessID, m.WarehouseID, m.ItemID, m.Type,
		m.ReferenceType, m.ReferenceID, m.Quantity, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return mapPgError(err, "failed to save movement "+m.MovementID)
	}
	return nil
}
