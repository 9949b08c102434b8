package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

// PgxConfigRepository stores tenant feature and rule overrides. Rule values are jsonb.
type PgxConfigRepository struct {
	BaseRepository
}

var _ portsrepo.ConfigRepositoryFacade = (*PgxConfigRepository)(nil)

const featureColumns = `business_id, feature_key, enabled, created_at, created_by, last_updated_at, last_updated_by`

func scanFeature(row rowScanner) (domain.BusinessFeature, error) {
	var f domain.BusinessFeature
	err := row.Scan(&f.BusinessID, &f.FeatureKey, &f.Enabled, &f.CreatedAt, &f.CreatedBy, &f.LastUpdatedAt, &f.LastUpdatedBy)
	return f, err
}

func (r *PgxConfigRepository) ListFeatures(ctx context.Context, businessID string) ([]domain.BusinessFeature, error) {
	rows, err := r.db.Query(ctx, `SELECT `+featureColumns+` FROM business_features WHERE business_id = $1 ORDER BY feature_key;`, businessID)
	if err != nil {
		return nil, mapPgError(err, "failed to query features")
	}
	defer rows.Close()

	var out []domain.BusinessFeature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PgxConfigRepository) FindFeature(ctx context.Context, businessID, key string) (*domain.BusinessFeature, error) {
	row := r.db.QueryRow(ctx, `SELECT `+featureColumns+` FROM business_features WHERE business_id = $1 AND feature_key = $2;`, businessID, key)
	f, err := scanFeature(row)
	if err != nil {
		return nil, mapPgError(err, "failed to find feature "+key)
	}
	return &f, nil
}

func (r *PgxConfigRepository) UpsertFeature(ctx context.Context, f domain.BusinessFeature) error {
	query := `
		INSERT INTO business_features (` + featureColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (business_id, feature_key) DO UPDATE
		SET enabled = EXCLUDED.enabled, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query, f.BusinessID, f.FeatureKey, f.Enabled, f.CreatedAt, f.CreatedBy, f.LastUpdatedAt, f.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "failed to upsert feature "+f.FeatureKey)
	}
	return nil
}

const ruleColumns = `business_id, rule_key, rule_value, scope, created_at, created_by, last_updated_at, last_updated_by`

func scanRule(row rowScanner) (domain.BusinessRule, error) {
	var (
		rule domain.BusinessRule
		raw  []byte
	)
	err := row.Scan(&rule.BusinessID, &rule.RuleKey, &raw, &rule.Scope, &rule.CreatedAt, &rule.CreatedBy, &rule.LastUpdatedAt, &rule.LastUpdatedBy)
	if err != nil {
		return rule, err
	}
	if raw != nil {
		if err := json.Unmarshal(raw, &rule.RuleValue); err != nil {
			return rule, fmt.Errorf("failed to decode rule %s: %w", rule.RuleKey, err)
		}
	}
	return rule, nil
}

// encodeRuleValue renders a rule value as jsonb, or SQL NULL for a cleared override.
func encodeRuleValue(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *PgxConfigRepository) ListRules(ctx context.Context, businessID string) ([]domain.BusinessRule, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ruleColumns+` FROM business_rules WHERE business_id = $1 ORDER BY rule_key;`, businessID)
	if err != nil {
		return nil, mapPgError(err, "failed to query rules")
	}
	defer rows.Close()

	var out []domain.BusinessRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule row: %w", err)
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

func (r *PgxConfigRepository) FindRule(ctx context.Context, businessID, key string) (*domain.BusinessRule, error) {
	row := r.db.QueryRow(ctx, `SELECT `+ruleColumns+` FROM business_rules WHERE business_id = $1 AND rule_key = $2;`, businessID, key)
	rule, err := scanRule(row)
	if err != nil {
		return nil, mapPgError(err, "failed to find rule "+key)
	}
	return &rule, nil
}

func (r *PgxConfigRepository) UpsertRule(ctx context.Context, rule domain.BusinessRule) error {
	query := `
		INSERT INTO business_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (business_id, rule_key) DO UPDATE
		SET rule_value = EXCLUDED.rule_value, scope = EXCLUDED.scope,
		    last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;
	`
	raw, err := encodeRuleValue(rule.RuleValue)
	if err != nil {
		return fmt.Errorf("%w: rule %s value: %v", apperrors.ErrValidation, rule.RuleKey, err)
	}
	_, err = r.db.Exec(ctx, query, rule.BusinessID, rule.RuleKey, raw, rule.Scope,
		rule.CreatedAt, rule.CreatedBy, rule.LastUpdatedAt, rule.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "failed to upsert rule "+rule.RuleKey)
	}
	return nil
}
