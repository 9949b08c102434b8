package domain

// Feature keys understood by the engine.
const (
	FeaturePOSBasic       = "POS_BASIC"
	FeatureInventory      = "INVENTORY"
	FeatureBatchTracking  = "BATCH_TRACKING"
	FeatureExpiryTracking = "EXPIRY_TRACKING"
)

// Rule keys understood by the engine.
const (
	RuleDiscountMaxPercent = "discount.max_percent"
	RuleStockAllowNegative = "stock.allow_negative"
	RuleCurrency           = "currency"
	RuleDayRequiredKeys    = "day.required_keys"
	RulePOSRequireOpenDay  = "pos.require_open_day"
)

const (
	configFeaturesKey = "features"
	configRulesKey    = "rules"
)

// SystemDefaults returns a fresh copy of the foundation configuration layer.
func SystemDefaults() map[string]any {
	return map[string]any{
		configFeaturesKey: map[string]any{
			FeaturePOSBasic:       true,
			FeatureInventory:      true,
			FeatureBatchTracking:  false,
			FeatureExpiryTracking: false,
		},
		configRulesKey: map[string]any{
			RuleDiscountMaxPercent: 10,
			RuleStockAllowNegative: false,
			RuleCurrency:           "USD",
			RuleDayRequiredKeys:    1,
			RulePOSRequireOpenDay:  false,
		},
	}
}

// FeatureOverrideLayer shapes tenant feature overrides as a config layer.
func FeatureOverrideLayer(features []BusinessFeature) map[string]any {
	m := make(map[string]any, len(features))
	for _, f := range features {
		m[f.FeatureKey] = f.Enabled
	}
	return map[string]any{configFeaturesKey: m}
}

// RuleOverrideLayer shapes tenant rule overrides as a config layer.
// A nil value is a cleared override and leaves the lower layers in effect.
func RuleOverrideLayer(rules []BusinessRule) map[string]any {
	m := make(map[string]any, len(rules))
	for _, r := range rules {
		if r.RuleValue == nil {
			continue
		}
		m[r.RuleKey] = r.RuleValue
	}
	return map[string]any{configRulesKey: m}
}

// EffectiveConfig is the resolved, read-only configuration of one business.
type EffectiveConfig struct {
	BusinessID string
	tree       map[string]any
}

// NewEffectiveConfig wraps a merged tree. The tree must not be mutated afterwards.
func NewEffectiveConfig(businessID string, tree map[string]any) EffectiveConfig {
	return EffectiveConfig{BusinessID: businessID, tree: tree}
}

// FeatureEnabled reports whether a feature flag resolves to true.
func (c EffectiveConfig) FeatureEnabled(key string) bool {
	features, _ := c.tree[configFeaturesKey].(map[string]any)
	enabled, _ := features[key].(bool)
	return enabled
}

// Rule returns the resolved value of a rule and whether it is set.
func (c EffectiveConfig) Rule(key string) (any, bool) {
	rules, _ := c.tree[configRulesKey].(map[string]any)
	v, ok := rules[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Tree returns a deep copy of the resolved configuration.
func (c EffectiveConfig) Tree() map[string]any {
	return deepCopy(c.tree)
}

func deepCopy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case map[string]any:
			out[k] = deepCopy(t)
		case []any:
			cp := make([]any, len(t))
			copy(cp, t)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}

// RuleContext carries the proposed value a rule is evaluated against.
type RuleContext struct {
	BusinessID string `json:"businessID"`
	UserID     string `json:"userID"`
	Value      any    `json:"value"`
}
