package dto

// SetFeatureRequest toggles a feature flag for a business.
type SetFeatureRequest struct {
	Enabled bool `json:"enabled"`
}

// SetRuleRequest overrides a rule value for a business. A null value clears the override.
type SetRuleRequest struct {
	Value any    `json:"value"`
	Scope string `json:"scope" validate:"omitempty,max=64"`
}

// EvaluateRuleRequest carries the proposed value to test against a rule.
type EvaluateRuleRequest struct {
	Value any `json:"value"`
}

// EvaluateRuleResponse is the decision for one rule.
type EvaluateRuleResponse struct {
	RuleKey string `json:"ruleKey"`
	Allowed bool   `json:"allowed"`
}

// ConfigResponse is the effective configuration of a business.
type ConfigResponse struct {
	BusinessID string         `json:"businessID"`
	Features   map[string]any `json:"features"`
	Rules      map[string]any `json:"rules"`
}
