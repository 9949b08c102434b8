package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/configmerge"
)

// configService resolves the layered configuration of a business.
type configService struct {
	BaseService
	uow portsrepo.UnitOfWork
}

// newConfigService creates a new configuration service.
func newConfigService(uow portsrepo.UnitOfWork, base BaseService) *configService {
	return &configService{BaseService: base, uow: uow}
}

var _ portssvc.ConfigSvcFacade = (*configService)(nil)

// ResolveConfig implements portssvc.ConfigSvcFacade.
func (s *configService) ResolveConfig(ctx context.Context, businessID string) (domain.EffectiveConfig, error) {
	return s.resolve(ctx, s.uow.Repositories(), businessID)
}

// resolve is the read used inside units of work so the snapshot matches the transaction's view.
func (s *configService) resolve(ctx context.Context, repos portsrepo.RepositoryProvider, businessID string) (domain.EffectiveConfig, error) {
	layers, err := s.loadLayers(ctx, repos, businessID)
	if err != nil {
		return domain.EffectiveConfig{}, err
	}
	tree, err := mergeLayers(layers)
	if err != nil {
		return domain.EffectiveConfig{}, err
	}
	return domain.NewEffectiveConfig(businessID, tree), nil
}

func (s *configService) loadLayers(ctx context.Context, repos portsrepo.RepositoryProvider, businessID string) (domain.ConfigLayers, error) {
	business, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID)
	if err != nil {
		return domain.ConfigLayers{}, fmt.Errorf("business %s: %w", businessID, err)
	}
	layers := domain.ConfigLayers{Business: *business}

	if business.IndustryID != "" {
		industry, err := repos.BusinessRepo.FindIndustryByID(ctx, business.IndustryID)
		switch {
		case err == nil:
			layers.IndustryDefaults = industry.DefaultConfig
		case errors.Is(err, apperrors.ErrNotFound):
			s.LogDebug(ctx, "Industry not found, skipping template layer", slog.String("industry_id", business.IndustryID))
		default:
			return domain.ConfigLayers{}, err
		}
	}

	if layers.Features, err = repos.ConfigRepo.ListFeatures(ctx, businessID); err != nil {
		return domain.ConfigLayers{}, err
	}
	if layers.Rules, err = repos.ConfigRepo.ListRules(ctx, businessID); err != nil {
		return domain.ConfigLayers{}, err
	}
	return layers, nil
}

// mergeLayers applies system defaults, industry template, feature overrides then rule overrides.
func mergeLayers(l domain.ConfigLayers) (map[string]any, error) {
	return configmerge.Merge(
		domain.SystemDefaults(),
		l.IndustryDefaults,
		domain.FeatureOverrideLayer(l.Features),
		domain.RuleOverrideLayer(l.Rules),
	)
}

// SetFeature implements portssvc.ConfigSvcFacade.
func (s *configService) SetFeature(ctx context.Context, businessID, featureKey string, req dto.SetFeatureRequest, userID string) (*domain.BusinessFeature, error) {
	featureKey = strings.TrimSpace(featureKey)
	if featureKey == "" {
		return nil, fmt.Errorf("%w: feature key is required", apperrors.ErrValidation)
	}

	var before, after *domain.BusinessFeature
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		existing, err := repos.ConfigRepo.FindFeature(ctx, businessID, featureKey)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		before = existing

		now := time.Now().UTC()
		feature := domain.BusinessFeature{
			BusinessID:  businessID,
			FeatureKey:  featureKey,
			Enabled:     req.Enabled,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		if existing != nil {
			feature.CreatedAt, feature.CreatedBy = existing.CreatedAt, existing.CreatedBy
		}
		if err := repos.ConfigRepo.UpsertFeature(ctx, feature); err != nil {
			return err
		}
		after = &feature
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to set feature", slog.String("feature", featureKey))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "config", Action: "SET_FEATURE",
		EntityID: featureKey, Before: before, After: after,
	})
	return after, nil
}

// SetRule implements portssvc.ConfigSvcFacade.
func (s *configService) SetRule(ctx context.Context, businessID, ruleKey string, req dto.SetRuleRequest, userID string) (*domain.BusinessRule, error) {
	ruleKey = strings.TrimSpace(ruleKey)
	if ruleKey == "" {
		return nil, fmt.Errorf("%w: rule key is required", apperrors.ErrValidation)
	}
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var before, after *domain.BusinessRule
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		existing, err := repos.ConfigRepo.FindRule(ctx, businessID, ruleKey)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		before = existing

		now := time.Now().UTC()
		rule := domain.BusinessRule{
			BusinessID:  businessID,
			RuleKey:     ruleKey,
			RuleValue:   req.Value,
			Scope:       req.Scope,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		if existing != nil {
			rule.CreatedAt, rule.CreatedBy = existing.CreatedAt, existing.CreatedBy
		}
		if err := repos.ConfigRepo.UpsertRule(ctx, rule); err != nil {
			return err
		}
		after = &rule
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to set rule", slog.String("rule", ruleKey))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "config", Action: "SET_RULE",
		EntityID: ruleKey, Before: before, After: after,
	})
	return after, nil
}
