package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

type businessRepo struct{ v *view }

func (r *businessRepo) FindBusinessByID(_ context.Context, businessID string) (*domain.Business, error) {
	st, done := r.v.acquire()
	defer done()
	b, ok := st.businesses[businessID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &b, nil
}

func (r *businessRepo) SaveBusiness(_ context.Context, business domain.Business) error {
	st, done := r.v.acquire()
	defer done()
	st.businesses[business.BusinessID] = business
	return nil
}

func (r *businessRepo) FindIndustryByID(_ context.Context, industryID string) (*domain.Industry, error) {
	st, done := r.v.acquire()
	defer done()
	i, ok := st.industries[industryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &i, nil
}

func (r *businessRepo) SaveIndustry(_ context.Context, industry domain.Industry) error {
	st, done := r.v.acquire()
	defer done()
	st.industries[industry.IndustryID] = industry
	return nil
}

func (r *businessRepo) FindWarehouseByID(_ context.Context, businessID, warehouseID string) (*domain.Warehouse, error) {
	st, done := r.v.acquire()
	defer done()
	w, ok := st.warehouses[warehouseID]
	if !ok || w.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return &w, nil
}

func (r *businessRepo) SaveWarehouse(_ context.Context, warehouse domain.Warehouse) error {
	st, done := r.v.acquire()
	defer done()
	st.warehouses[warehouse.WarehouseID] = warehouse
	return nil
}

func (r *businessRepo) ListWarehouses(_ context.Context, businessID string) ([]domain.Warehouse, error) {
	st, done := r.v.acquire()
	defer done()
	out := make([]domain.Warehouse, 0)
	for _, w := range st.warehouses {
		if w.BusinessID == businessID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, nil
}

type configRepo struct{ v *view }

func (r *configRepo) ListFeatures(_ context.Context, businessID string) ([]domain.BusinessFeature, error) {
	st, done := r.v.acquire()
	defer done()
	var out []domain.BusinessFeature
	for _, f := range st.features {
		if f.BusinessID == businessID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FeatureKey < out[j].FeatureKey })
	return out, nil
}

func (r *configRepo) FindFeature(_ context.Context, businessID, featureKey string) (*domain.BusinessFeature, error) {
	st, done := r.v.acquire()
	defer done()
	f, ok := st.features[key(businessID, featureKey)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &f, nil
}

func (r *configRepo) UpsertFeature(_ context.Context, feature domain.BusinessFeature) error {
	st, done := r.v.acquire()
	defer done()
	st.features[key(feature.BusinessID, feature.FeatureKey)] = feature
	return nil
}

func (r *configRepo) ListRules(_ context.Context, businessID string) ([]domain.BusinessRule, error) {
	st, done := r.v.acquire()
	defer done()
	var out []domain.BusinessRule
	for _, rule := range st.rules {
		if rule.BusinessID == businessID {
			out = append(out, rule)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RuleKey < out[j].RuleKey })
	return out, nil
}

func (r *configRepo) FindRule(_ context.Context, businessID, ruleKey string) (*domain.BusinessRule, error) {
	st, done := r.v.acquire()
	defer done()
	rule, ok := st.rules[key(businessID, ruleKey)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rule, nil
}

func (r *configRepo) UpsertRule(_ context.Context, rule domain.BusinessRule) error {
	st, done := r.v.acquire()
	defer done()
	st.rules[key(rule.BusinessID, rule.RuleKey)] = rule
	return nil
}
