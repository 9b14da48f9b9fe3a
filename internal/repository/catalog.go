package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"compliance-workers/internal/models"

	"github.com/lib/pq"
)

const grantColumns = `g.id, g.title, COALESCE(g.description, ''), COALESCE(g.issuer, ''),
	g.countries, g.sectors, g.company_sizes,
	g.min_employees, g.max_employees, g.min_revenue, g.max_revenue,
	g.regions, g.permitted_cnae_codes, g.application_deadline, g.max_amount,
	g.estimation_params, g.is_active`

// grantRow holds the nullable columns of a grants row until they are applied.
type grantRow struct {
	minEmployees, maxEmployees sql.NullInt64
	minRevenue, maxRevenue     sql.NullFloat64
	maxAmount                  sql.NullFloat64
	deadline                   sql.NullTime
	params                     []byte
}

func (r *grantRow) dest(g *models.Grant) []interface{} {
	return []interface{}{
		&g.ID, &g.Title, &g.Description, &g.Issuer,
		pq.Array(&g.Countries), pq.Array(&g.Sectors), pq.Array(&g.CompanySizes),
		&r.minEmployees, &r.maxEmployees, &r.minRevenue, &r.maxRevenue,
		pq.Array(&g.Regions), pq.Array(&g.PermittedCNAECodes), &r.deadline, &r.maxAmount,
		&r.params, &g.IsActive,
	}
}

func (r *grantRow) apply(g *models.Grant) error {
	g.MinEmployees = intPtr(r.minEmployees)
	g.MaxEmployees = intPtr(r.maxEmployees)
	g.MinRevenue = floatPtr(r.minRevenue)
	g.MaxRevenue = floatPtr(r.maxRevenue)
	g.MaxAmount = floatPtr(r.maxAmount)
	g.ApplicationDeadline = timePtr(r.deadline)

	if len(r.params) > 0 {
		if err := json.Unmarshal(r.params, &g.EstimationParams); err != nil {
			return fmt.Errorf("decode estimation_params for grant %s: %w", g.ID, err)
		}
	}
	return nil
}

// ListActiveScoringRules returns the active rules by position; that order
// drives the breakdown and explanation order of every match.
func (s *Store) ListActiveScoringRules(ctx context.Context) ([]models.ScoringRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_type, weight, position, is_active
		FROM scoring_rules
		WHERE is_active = true
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query scoring rules: %w", err)
	}
	defer rows.Close()

	var rules []models.ScoringRule
	for rows.Next() {
		var r models.ScoringRule
		if err := rows.Scan(&r.ID, &r.RuleType, &r.Weight, &r.Position, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scan scoring rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// ListActiveGrants returns active grants whose application deadline is not before asOf.
// Grants without a deadline are excluded from the batch catalog.
func (s *Store) ListActiveGrants(ctx context.Context, asOf time.Time) ([]models.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+grantColumns+`
		FROM grants g
		WHERE g.is_active = true AND g.application_deadline >= $1
		ORDER BY g.application_deadline, g.id`, asOf)
	if err != nil {
		return nil, fmt.Errorf("query active grants: %w", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

// ListAllActiveGrants returns every active grant regardless of deadline.
func (s *Store) ListAllActiveGrants(ctx context.Context) ([]models.Grant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+grantColumns+`
		FROM grants g
		WHERE g.is_active = true
		ORDER BY g.id`)
	if err != nil {
		return nil, fmt.Errorf("query grants: %w", err)
	}
	defer rows.Close()

	return scanGrants(rows)
}

func scanGrants(rows *sql.Rows) ([]models.Grant, error) {
	var grants []models.Grant
	for rows.Next() {
		var (
			g   models.Grant
			row grantRow
		)
		if err := rows.Scan(row.dest(&g)...); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		if err := row.apply(&g); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ListRequirements returns the full compliance requirement catalog.
func (s *Store) ListRequirements(ctx context.Context) ([]models.ComplianceRequirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.title, COALESCE(r.description, ''), COALESCE(r.category, ''), r.severity,
			r.countries, r.sectors, r.company_sizes, r.is_recurring, r.frequency
		FROM compliance_requirements r
		ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	var reqs []models.ComplianceRequirement
	for rows.Next() {
		var (
			r         models.ComplianceRequirement
			frequency sql.NullString
		)
		if err := rows.Scan(requirementDest(&r, &frequency)...); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		r.Frequency = stringPtr(frequency)
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

func requirementDest(r *models.ComplianceRequirement, frequency *sql.NullString) []interface{} {
	return []interface{}{
		&r.ID, &r.Title, &r.Description, &r.Category, &r.Severity,
		pq.Array(&r.Countries), pq.Array(&r.Sectors), pq.Array(&r.CompanySizes),
		&r.IsRecurring, frequency,
	}
}
