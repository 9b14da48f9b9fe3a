package batch

import (
	"context"
	"fmt"

	"compliance-workers/internal/common/metrics"
	"compliance-workers/internal/compliance"
	"compliance-workers/internal/matching"
	"compliance-workers/internal/models"
)

type CompanyResult struct {
	ComplianceScore   int `json:"complianceScore"`
	TotalRequirements int `json:"totalRequirements"`
	TotalGrants       int `json:"totalGrants"`
}

// MatchCompany runs the single-company evaluation: applicable requirements
// become compliance rows, grants scoring above zero are upserted, and the
// compliance score is recalculated from the persisted rows.
func (r *Runner) MatchCompany(ctx context.Context, companyID string) (*CompanyResult, error) {
	company, err := r.deps.Companies.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := r.now()

	reqs, err := r.deps.Catalog.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("load requirements: %w", err)
	}
	matches := compliance.MatchRequirements(reqs, *company, now)
	if err := r.deps.Writer.UpsertComplianceMatches(ctx, company.ID, matches); err != nil {
		return nil, fmt.Errorf("persist compliance matches: %w", err)
	}

	rules, err := r.deps.Rules.ListActiveScoringRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scoring rules: %w", err)
	}
	grants, err := r.deps.Catalog.ListAllActiveGrants(ctx)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}

	strategy, err := matching.NewStrategy(r.config.SingleStrategy, rules,
		matching.WithCurrency(r.config.Currency),
		matching.WithClock(r.now),
	)
	if err != nil {
		return nil, err
	}

	matched := 0
	for _, grant := range grants {
		result := strategy.Evaluate(*company, grant)
		metrics.MatchesEvaluated.WithLabelValues(strategy.Name()).Inc()
		if result.TotalScore <= 0 {
			continue
		}
		if err := r.deps.Writer.UpsertCompanyGrant(ctx, company.ID, grant.ID, result.TotalScore, result.MatchDetails, models.GrantStatusOpportunity); err != nil {
			return nil, fmt.Errorf("persist match %s: %w", grant.ID, err)
		}
		metrics.MatchesPersisted.Inc()
		matched++
	}

	score, err := r.deps.Scores.Recalculate(ctx, company.ID)
	if err != nil {
		return nil, err
	}

	r.logger.Info("company matched", map[string]interface{}{
		"companyId":    company.ID,
		"strategy":     strategy.Name(),
		"requirements": len(matches),
		"grants":       matched,
		"score":        score,
	})

	return &CompanyResult{
		ComplianceScore:   score,
		TotalRequirements: len(matches),
		TotalGrants:       matched,
	}, nil
}
