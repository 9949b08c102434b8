package domain

// Business is one tenant. Every other entity is scoped by BusinessID.
type Business struct {
	BusinessID string `json:"businessID"`
	Name       string `json:"name"`
	IndustryID string `json:"industryID"`
	AuditFields
}

// Industry carries the configuration template applied to its businesses.
type Industry struct {
	IndustryID    string         `json:"industryID"`
	Name          string         `json:"name"`
	DefaultConfig map[string]any `json:"defaultConfig"`
}

// BusinessFeature is a tenant override of a feature flag.
type BusinessFeature struct {
	BusinessID string `json:"businessID"`
	FeatureKey string `json:"featureKey"`
	Enabled    bool   `json:"enabled"`
	AuditFields
}

// BusinessRule is a tenant override of a rule value.
type BusinessRule struct {
	BusinessID string `json:"businessID"`
	RuleKey    string `json:"ruleKey"`
	RuleValue  any    `json:"ruleValue"`
	Scope      string `json:"scope"`
	AuditFields
}

// ConfigLayers is everything the resolver needs to compute a tenant's effective configuration.
type ConfigLayers struct {
	Business         Business
	IndustryDefaults map[string]any
	Features         []BusinessFeature
	Rules            []BusinessRule
}

// Warehouse is a stock location of a business.
type Warehouse struct {
	WarehouseID string `json:"warehouseID"`
	BusinessID  string `json:"businessID"`
	Name        string `json:"name"`
	IsActive    bool   `json:"isActive"`
}
