package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/rules"
)

// ruleService evaluates rules against a freshly resolved configuration.
type ruleService struct {
	BaseService
	config       *configService
	defaultAllow bool
}

// newRuleService creates a rule service. defaultAllow decides rules that resolve to no value.
func newRuleService(config *configService, defaultAllow bool, base BaseService) *ruleService {
	return &ruleService{BaseService: base, config: config, defaultAllow: defaultAllow}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

// EvaluateRule implements portssvc.RuleSvcFacade.
func (s *ruleService) EvaluateRule(ctx context.Context, rc domain.RuleContext, ruleKey string) (bool, error) {
	cfg, err := s.config.ResolveConfig(ctx, rc.BusinessID)
	if err != nil {
		return false, err
	}
	return s.evaluate(cfg, ruleKey, rc.Value), nil
}

func (s *ruleService) evaluate(cfg domain.EffectiveConfig, ruleKey string, value any) bool {
	return rules.Evaluate(cfg, ruleKey, value, s.defaultAllow)
}
