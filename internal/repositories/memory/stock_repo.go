package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/inventory"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type stockRepo struct{ v *view }

// withBatches attaches the non-empty batches of a stock row in consumption order.
func withBatches(st *state, stock domain.Stock) domain.Stock {
	var batches []domain.StockBatch
	for _, b := range st.batches {
		if b.StockID == stock.StockID && b.Quantity.IsPositive() {
			batches = append(batches, b)
		}
	}
	inventory.SortForConsumption(batches)
	stock.Batches = batches
	return stock
}

func (r *stockRepo) FindStock(_ context.Context, businessID, warehouseID, itemID string) (*domain.Stock, error) {
	st, done := r.v.acquire()
	defer done()
	id, ok := st.stockIndex[key(businessID, warehouseID, itemID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	stock := withBatches(st, st.stocks[id])
	return &stock, nil
}

func (r *stockRepo) ListWarehouseStock(_ context.Context, businessID, warehouseID string) ([]domain.Stock, error) {
	st, done := r.v.acquire()
	defer done()
	out := make([]domain.Stock, 0)
	for _, s := range st.stocks {
		if s.BusinessID == businessID && s.WarehouseID == warehouseID {
			out = append(out, withBatches(st, s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func (r *stockRepo) ListMovements(_ context.Context, businessID, warehouseID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	var (
		cursorAt time.Time
		cursorID string
	)
	if nextToken != nil {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit = pagination.NormalizeLimit(limit)

	st, done := r.v.acquire()
	defer done()

	var matched []domain.StockMovement
	for _, m := range st.movements {
		if m.BusinessID != businessID || m.WarehouseID != warehouseID || m.ItemID != itemID {
			continue
		}
		if nextToken != nil && !pagination.After(m.CreatedAt, m.MovementID, cursorAt, cursorID) {
			continue
		}
		matched = append(matched, m)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].MovementID < matched[j].MovementID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.MovementID)
	return page, &token, nil
}

func (r *stockRepo) SumMovementsUntil(_ context.Context, businessID, warehouseID, itemID string, asOf time.Time) (decimal.Decimal, error) {
	st, done := r.v.acquire()
	defer done()
	sum := decimal.Zero
	for _, m := range st.movements {
		if m.BusinessID == businessID && m.WarehouseID == warehouseID && m.ItemID == itemID && !m.CreatedAt.After(asOf) {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (r *stockRepo) LockOrCreateStock(_ context.Context, businessID, warehouseID, itemID, userID string, now time.Time) (*domain.Stock, error) {
	st, done := r.v.acquire()
	defer done()
	k := key(businessID, warehouseID, itemID)
	if id, ok := st.stockIndex[k]; ok {
		s := st.stocks[id]
		return &s, nil
	}
	s := domain.Stock{
		StockID:     uuid.NewString(),
		BusinessID:  businessID,
		WarehouseID: warehouseID,
		ItemID:      itemID,
		Quantity:    decimal.Zero,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	st.stocks[s.StockID] = s
	st.stockIndex[k] = s.StockID
	return &s, nil
}

func (r *stockRepo) UpdateStockQuantity(_ context.Context, stockID string, quantity decimal.Decimal, userID string, now time.Time) error {
	st, done := r.v.acquire()
	defer done()
	s, ok := st.stocks[stockID]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.Quantity = quantity
	s.LastUpdatedAt, s.LastUpdatedBy = now, userID
	st.stocks[stockID] = s
	return nil
}

func (r *stockRepo) ListBatchesForUpdate(_ context.Context, stockID string) ([]domain.StockBatch, error) {
	st, done := r.v.acquire()
	defer done()
	var out []domain.StockBatch
	for _, b := range st.batches {
		if b.StockID == stockID {
			out = append(out, b)
		}
	}
	inventory.SortForConsumption(out)
	return out, nil
}

func (r *stockRepo) SaveBatch(_ context.Context, batch domain.StockBatch) error {
	st, done := r.v.acquire()
	defer done()
	st.batches[batch.BatchID] = batch
	return nil
}

func (r *stockRepo) UpdateBatchQuantities(_ context.Context, quantities map[string]decimal.Decimal) error {
	st, done := r.v.acquire()
	defer done()
	for id, qty := range quantities {
		b, ok := st.batches[id]
		if !ok {
			return fmt.Errorf("batch %s: %w", id, apperrors.ErrNotFound)
		}
		b.Quantity = qty
		st.batches[id] = b
	}
	return nil
}

func (r *stockRepo) SaveMovement(_ context.Context, movement domain.StockMovement) error {
	st, done := r.v.acquire()
	defer done()
	st.movements = append(st.movements, movement)
	return nil
}
