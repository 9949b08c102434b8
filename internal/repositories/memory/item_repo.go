package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

type itemRepo struct{ v *view }

func (r *itemRepo) FindItemByID(_ context.Context, businessID, itemID string) (*domain.Item, error) {
	st, done := r.v.acquire()
	defer done()
	i, ok := st.items[itemID]
	if !ok || i.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return &i, nil
}

func (r *itemRepo) SaveItem(_ context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	st, done := r.v.acquire()
	defer done()
	st.items[item.ItemID] = item
	return nil
}

func (r *itemRepo) ListItems(_ context.Context, businessID string) ([]domain.Item, error) {
	st, done := r.v.acquire()
	defer done()
	out := make([]domain.Item, 0)
	for _, i := range st.items {
		if i.BusinessID == businessID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ItemID < out[b].ItemID
	})
	return out, nil
}

func (r *itemRepo) UpdateItemCostPrice(_ context.Context, businessID, itemID string, cost decimal.Decimal, userID string, now time.Time) error {
	st, done := r.v.acquire()
	defer done()
	i, ok := st.items[itemID]
	if !ok || i.BusinessID != businessID {
		return apperrors.ErrNotFound
	}
	i.CostPrice = cost
	i.LastUpdatedAt, i.LastUpdatedBy = now, userID
	st.items[itemID] = i
	return nil
}

type unitRepo struct{ v *view }

func (r *unitRepo) FindUnitByID(_ context.Context, businessID, unitID string) (*domain.Unit, error) {
	st, done := r.v.acquire()
	defer done()
	u, ok := st.units[unitID]
	if !ok || u.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *unitRepo) SaveUnit(_ context.Context, unit domain.Unit) error {
	st, done := r.v.acquire()
	defer done()
	st.units[unit.UnitID] = unit
	return nil
}

func (r *unitRepo) FindConversion(_ context.Context, businessID, fromUnitID, toUnitID string) (*domain.UnitConversion, error) {
	st, done := r.v.acquire()
	defer done()
	c, ok := st.conversions[key(businessID, fromUnitID, toUnitID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (r *unitRepo) SaveConversion(_ context.Context, conversion domain.UnitConversion) error {
	st, done := r.v.acquire()
	defer done()
	st.conversions[key(conversion.BusinessID, conversion.FromUnitID, conversion.ToUnitID)] = conversion
	return nil
}
