package rules

import (
	"encoding/json"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cfgWith(rules map[string]any) domain.EffectiveConfig {
	return domain.NewEffectiveConfig("biz", map[string]any{"rules": rules})
}

func TestEvaluate_DiscountBoundary(t *testing.T) {
	cfg := cfgWith(map[string]any{domain.RuleDiscountMaxPercent: 10})

	assert.True(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, decimal.RequireFromString("10"), true))
	assert.False(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, decimal.RequireFromString("10.01"), true))
	assert.True(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, 0, true))
}

func TestEvaluate_DiscountFromJSONNumber(t *testing.T) {
	cfg := cfgWith(map[string]any{domain.RuleDiscountMaxPercent: json.Number("12.5")})
	assert.True(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, 12.5, true))
	assert.False(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, "12.51", true))
}

func TestEvaluate_DiscountNonNumericDenies(t *testing.T) {
	cfg := cfgWith(map[string]any{domain.RuleDiscountMaxPercent: "lots"})
	assert.False(t, Evaluate(cfg, domain.RuleDiscountMaxPercent, 1, true))
}

func TestEvaluate_AllowNegative(t *testing.T) {
	assert.True(t, Evaluate(cfgWith(map[string]any{domain.RuleStockAllowNegative: true}), domain.RuleStockAllowNegative, nil, false))
	assert.False(t, Evaluate(cfgWith(map[string]any{domain.RuleStockAllowNegative: false}), domain.RuleStockAllowNegative, nil, true))
}

func TestEvaluate_UnsetUsesDefault(t *testing.T) {
	cfg := cfgWith(map[string]any{"custom": nil})
	assert.True(t, Evaluate(cfg, "custom", 1, true))
	assert.False(t, Evaluate(cfg, "missing", 1, false))
}

func TestEvaluate_GenericRules(t *testing.T) {
	cfg := cfgWith(map[string]any{"flag": true, "limit": 3, "mode": "strict"})

	assert.True(t, Evaluate(cfg, "flag", "anything", false))
	assert.True(t, Evaluate(cfg, "limit", 3.0, false))
	assert.False(t, Evaluate(cfg, "limit", 4, false))
	assert.True(t, Evaluate(cfg, "mode", "strict", false))
	assert.False(t, Evaluate(cfg, "mode", "lenient", false))
}

func TestIntAndBoolRule(t *testing.T) {
	cfg := cfgWith(map[string]any{domain.RuleDayRequiredKeys: float64(2), domain.RulePOSRequireOpenDay: true})

	assert.Equal(t, 2, IntRule(cfg, domain.RuleDayRequiredKeys, 1))
	assert.Equal(t, 1, IntRule(cfg, "missing", 1))
	assert.True(t, BoolRule(cfg, domain.RulePOSRequireOpenDay, false))
	assert.False(t, BoolRule(cfg, "missing", false))
}
