// Package rules applies rule semantics to a proposed value.
package rules

import (
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Evaluate decides whether value passes rule key under cfg. An unset rule
// resolves to defaultAllow.
func Evaluate(cfg domain.EffectiveConfig, key string, value any, defaultAllow bool) bool {
	ruleValue, ok := cfg.Rule(key)
	if !ok {
		return defaultAllow
	}

	switch key {
	case domain.RuleDiscountMaxPercent:
		limit, lok := ToDecimal(ruleValue)
		requested, rok := ToDecimal(value)
		if !lok || !rok {
			return false
		}
		return requested.LessThanOrEqual(limit)
	case domain.RuleStockAllowNegative:
		allowed, _ := ruleValue.(bool)
		return allowed
	}

	if b, isBool := ruleValue.(bool); isBool {
		return b
	}
	if want, isNum := ToDecimal(ruleValue); isNum {
		got, ok := ToDecimal(value)
		return ok && got.Equal(want)
	}
	return ruleValue == value
}

// ToDecimal coerces JSON-ish numeric values to a decimal.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case *decimal.Decimal:
		if t == nil {
			return decimal.Zero, false
		}
		return *t, true
	case int:
		return decimal.NewFromInt(int64(t)), true
	case int32:
		return decimal.NewFromInt32(t), true
	case int64:
		return decimal.NewFromInt(t), true
	case float32:
		return decimal.NewFromFloat32(t), true
	case float64:
		return decimal.NewFromFloat(t), true
	case string:
		d, err := decimal.NewFromString(t)
		return d, err == nil
	case fmt.Stringer:
		d, err := decimal.NewFromString(t.String())
		return d, err == nil
	}
	return decimal.Zero, false
}

// IntRule reads an integer-valued rule, falling back to def when unset or malformed.
func IntRule(cfg domain.EffectiveConfig, key string, def int) int {
	v, ok := cfg.Rule(key)
	if !ok {
		return def
	}
	d, ok := ToDecimal(v)
	if !ok {
		return def
	}
	return int(d.IntPart())
}

// BoolRule reads a boolean rule, falling back to def when unset or not a boolean.
func BoolRule(cfg domain.EffectiveConfig, key string, def bool) bool {
	v, ok := cfg.Rule(key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}
