package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

type systemRepo struct{ v *view }

func (r *systemRepo) SaveKey(_ context.Context, k domain.OperationKey) error {
	st, done := r.v.acquire()
	defer done()
	for _, existing := range st.keys {
		if existing.BusinessID == k.BusinessID && existing.Code == k.Code {
			return fmt.Errorf("key code: %w", apperrors.ErrDuplicate)
		}
	}
	st.keys[k.KeyID] = k
	return nil
}

func (r *systemRepo) FindKeysByCodesForUpdate(_ context.Context, businessID string, codes []string) ([]domain.OperationKey, error) {
	st, done := r.v.acquire()
	defer done()
	wanted := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		wanted[c] = struct{}{}
	}
	var out []domain.OperationKey
	for _, k := range st.keys {
		if _, ok := wanted[k.Code]; ok && k.BusinessID == businessID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *systemRepo) MarkKeysUsed(_ context.Context, keyIDs []string, userID string, now time.Time) error {
	st, done := r.v.acquire()
	defer done()
	for _, id := range keyIDs {
		k, ok := st.keys[id]
		if !ok {
			return fmt.Errorf("key %s: %w", id, apperrors.ErrNotFound)
		}
		usedBy, usedAt := userID, now
		k.Used, k.UsedBy, k.UsedAt = true, &usedBy, &usedAt
		st.keys[id] = k
	}
	return nil
}

func (r *systemRepo) FindOpenDay(_ context.Context, businessID string) (*domain.DayControl, error) {
	st, done := r.v.acquire()
	defer done()
	for _, d := range st.days {
		if d.BusinessID == businessID && d.Status == domain.DayOpen {
			return &d, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *systemRepo) SaveDay(_ context.Context, day domain.DayControl) error {
	st, done := r.v.acquire()
	defer done()
	for _, d := range st.days {
		if d.BusinessID == day.BusinessID && d.Status == domain.DayOpen {
			return apperrors.ErrDayAlreadyOpen
		}
	}
	st.days[day.DayID] = day
	return nil
}

func (r *systemRepo) CloseDay(_ context.Context, dayID, userID string, now time.Time) error {
	st, done := r.v.acquire()
	defer done()
	d, ok := st.days[dayID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if d.Status != domain.DayOpen {
		return apperrors.ErrDayNotOpen
	}
	closedBy, closedAt := userID, now
	d.Status, d.ClosedBy, d.ClosedAt = domain.DayClosed, &closedBy, &closedAt
	st.days[dayID] = d
	return nil
}
