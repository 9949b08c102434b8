package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/shopspring/decimal"
)

// ConfigSvcFacade resolves and administers tenant configuration.
type ConfigSvcFacade interface {
	// ResolveConfig merges system defaults, the industry template and tenant overrides.
	ResolveConfig(ctx context.Context, businessID string) (domain.EffectiveConfig, error)

	// SetFeature upserts a tenant feature override.
	SetFeature(ctx context.Context, businessID, featureKey string, req dto.SetFeatureRequest, userID string) (*domain.BusinessFeature, error)

	// SetRule upserts a tenant rule override.
	SetRule(ctx context.Context, businessID, ruleKey string, req dto.SetRuleRequest, userID string) (*domain.BusinessRule, error)
}

// RuleSvcFacade evaluates rules against proposed values.
type RuleSvcFacade interface {
	EvaluateRule(ctx context.Context, rc domain.RuleContext, ruleKey string) (bool, error)
}

// UnitSvcFacade converts quantities between units of measure.
type UnitSvcFacade interface {
	Convert(ctx context.Context, businessID string, qty decimal.Decimal, fromUnitID, toUnitID string) (decimal.Decimal, error)
}
