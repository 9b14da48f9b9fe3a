package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"compliance-workers/internal/common/metrics"
	"compliance-workers/internal/matching"
	"compliance-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

type MatchAllSummary struct {
	Companies         int       `json:"companies"`
	Grants            int       `json:"grants"`
	TotalCombinations int       `json:"totalCombinations"`
	MatchesFound      int       `json:"matchesFound"`
	FailedCompanies   []Failure `json:"failedCompanies"`
}

// MatchAll scores every company against every grant still open now.
func (r *Runner) MatchAll(ctx context.Context) (*MatchAllSummary, error) {
	return r.MatchAllAsOf(ctx, r.now())
}

// MatchAllAsOf scores every company against every grant open at asOf. Matches
// scoring above the persistence threshold are upserted with status opportunity
// and the company's alerts are rebuilt. A failing company is recorded and skipped.
func (r *Runner) MatchAllAsOf(ctx context.Context, asOf time.Time) (*MatchAllSummary, error) {
	start := time.Now()
	rules, err := r.deps.Rules.ListActiveScoringRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load scoring rules: %w", err)
	}
	grants, err := r.deps.Catalog.ListActiveGrants(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("load active grants: %w", err)
	}
	companies, err := r.deps.Companies.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}

	strategy, err := matching.NewStrategy(r.config.BatchStrategy, rules,
		matching.WithCurrency(r.config.Currency),
		matching.WithClock(func() time.Time { return asOf }),
	)
	if err != nil {
		return nil, err
	}

	var (
		found  atomic.Int64
		failed failures
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for _, company := range companies {
		g.Go(func() error {
			if gctx.Err() != nil {
				failed.add(company.ID, gctx.Err())
				return nil
			}
			n, err := r.matchCompanyGrants(gctx, strategy, company, grants)
			found.Add(int64(n))
			if err != nil {
				metrics.BatchCompanyFailures.Inc()
				failed.add(company.ID, err)
				r.logger.Error("batch matching failed for company", map[string]interface{}{
					"companyId": company.ID,
					"error":     err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := &MatchAllSummary{
		Companies:         len(companies),
		Grants:            len(grants),
		TotalCombinations: len(companies) * len(grants),
		MatchesFound:      int(found.Load()),
		FailedCompanies:   failed.result(),
	}

	r.logger.Info("batch matching complete", map[string]interface{}{
		"strategy":     strategy.Name(),
		"companies":    summary.Companies,
		"grants":       summary.Grants,
		"matchesFound": summary.MatchesFound,
		"failed":       len(summary.FailedCompanies),
	})
	r.obs.RecordBatchPass(ctx, "match-all", summary.Companies, len(summary.FailedCompanies), time.Since(start))
	r.reportFailures(ctx, "match-all", summary.FailedCompanies)

	return summary, ctx.Err()
}

// matchCompanyGrants returns how many matches it persisted before any error.
func (r *Runner) matchCompanyGrants(ctx context.Context, strategy matching.ScoringStrategy, company models.Company, grants []models.Grant) (int, error) {
	persisted := 0
	for _, grant := range grants {
		result := strategy.Evaluate(company, grant)
		metrics.MatchesEvaluated.WithLabelValues(strategy.Name()).Inc()

		if result.TotalScore <= r.config.PersistThreshold {
			continue
		}
		if err := r.deps.Writer.UpsertCompanyGrant(ctx, company.ID, grant.ID, result.TotalScore, result.MatchDetails, models.GrantStatusOpportunity); err != nil {
			return persisted, fmt.Errorf("persist match %s: %w", grant.ID, err)
		}
		metrics.MatchesPersisted.Inc()
		persisted++
	}

	if _, err := r.deps.Alerts.Sync(ctx, company.ID); err != nil {
		return persisted, fmt.Errorf("refresh alerts: %w", err)
	}
	return persisted, nil
}
