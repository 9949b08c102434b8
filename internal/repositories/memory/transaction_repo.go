package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

type saleRepo struct{ v *view }

func (r *saleRepo) SaveSale(_ context.Context, sale domain.Sale) error {
	st, done := r.v.acquire()
	defer done()
	for _, s := range st.sales {
		if s.BusinessID == sale.BusinessID && s.InvoiceNumber == sale.InvoiceNumber {
			return fmt.Errorf("invoice %s: %w", sale.InvoiceNumber, apperrors.ErrDuplicate)
		}
	}
	sale.Items = slices.Clone(sale.Items)
	sale.Payments = slices.Clone(sale.Payments)
	st.sales[sale.SaleID] = sale
	return nil
}

func (r *saleRepo) FindSaleByID(_ context.Context, businessID, saleID string) (*domain.Sale, error) {
	st, done := r.v.acquire()
	defer done()
	s, ok := st.sales[saleID]
	if !ok || s.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	s.Items = slices.Clone(s.Items)
	s.Payments = slices.Clone(s.Payments)
	return &s, nil
}

type purchaseRepo struct{ v *view }

func (r *purchaseRepo) SavePurchase(_ context.Context, purchase domain.Purchase) error {
	st, done := r.v.acquire()
	defer done()
	purchase.Items = slices.Clone(purchase.Items)
	purchase.Payments = slices.Clone(purchase.Payments)
	st.purchases[purchase.PurchaseID] = purchase
	return nil
}

func (r *purchaseRepo) FindPurchaseByID(_ context.Context, businessID, purchaseID string) (*domain.Purchase, error) {
	st, done := r.v.acquire()
	defer done()
	p, ok := st.purchases[purchaseID]
	if !ok || p.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	p.Items = slices.Clone(p.Items)
	p.Payments = slices.Clone(p.Payments)
	return &p, nil
}

type returnRepo struct{ v *view }

func (r *returnRepo) SaveReturn(_ context.Context, ret domain.SaleReturn) error {
	st, done := r.v.acquire()
	defer done()
	ret.Items = slices.Clone(ret.Items)
	ret.Refunds = slices.Clone(ret.Refunds)
	st.returns[ret.ReturnID] = ret
	return nil
}

func (r *returnRepo) ReturnedQuantities(_ context.Context, businessID, saleID string) (map[string]decimal.Decimal, error) {
	st, done := r.v.acquire()
	defer done()
	out := make(map[string]decimal.Decimal)
	for _, ret := range st.returns {
		if ret.BusinessID != businessID || ret.SaleID != saleID {
			continue
		}
		for _, it := range ret.Items {
			out[it.ItemID] = out[it.ItemID].Add(it.Quantity)
		}
	}
	return out, nil
}

type adjustmentRepo struct{ v *view }

func (r *adjustmentRepo) SaveAdjustment(_ context.Context, adj domain.StockAdjustment) error {
	st, done := r.v.acquire()
	defer done()
	st.adjustments[adj.AdjustmentID] = adj
	return nil
}
