package batch

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"compliance-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

type SyncAllSummary struct {
	CompaniesProcessed int       `json:"companiesProcessed"`
	AlertsGenerated    int       `json:"alertsGenerated"`
	DigestsSent        int       `json:"digestsSent"`
	FailedCompanies    []Failure `json:"failedCompanies"`
}

// SyncAllAlerts rebuilds the alert set of every company.
func (r *Runner) SyncAllAlerts(ctx context.Context) (*SyncAllSummary, error) {
	start := time.Now()
	companies, err := r.deps.Companies.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}

	var (
		processed, generated, digests atomic.Int64
		failed                        failures
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for _, company := range companies {
		g.Go(func() error {
			n, err := r.deps.Alerts.Sync(gctx, company.ID)
			if err != nil {
				failed.add(company.ID, err)
				r.logger.Error("alert sync failed for company", map[string]interface{}{
					"companyId": company.ID,
					"error":     err.Error(),
				})
				return nil
			}
			processed.Add(1)
			generated.Add(int64(n))

			if sent := r.sendDigest(gctx, company); sent {
				digests.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	summary := &SyncAllSummary{
		CompaniesProcessed: int(processed.Load()),
		AlertsGenerated:    int(generated.Load()),
		DigestsSent:        int(digests.Load()),
		FailedCompanies:    failed.result(),
	}

	r.logger.Info("alert processing complete", map[string]interface{}{
		"companies": summary.CompaniesProcessed,
		"alerts":    summary.AlertsGenerated,
		"digests":   summary.DigestsSent,
		"failed":    len(summary.FailedCompanies),
	})
	r.obs.RecordBatchPass(ctx, "process-alerts", len(companies), len(summary.FailedCompanies), time.Since(start))
	r.reportFailures(ctx, "process-alerts", summary.FailedCompanies)

	return summary, ctx.Err()
}

// sendDigest is best effort: a failed digest never fails the sync.
func (r *Runner) sendDigest(ctx context.Context, company models.Company) bool {
	if r.deps.Digester == nil || r.deps.AlertReader == nil {
		return false
	}

	current, err := r.deps.AlertReader.ListAlerts(ctx, company.ID)
	if err != nil {
		r.logger.Warn("failed to read alerts for digest", map[string]interface{}{
			"companyId": company.ID,
			"error":     err.Error(),
		})
		return false
	}

	sent, err := r.deps.Digester.CriticalDigest(ctx, company, current)
	if err != nil {
		r.logger.Warn("alert digest failed", map[string]interface{}{
			"companyId": company.ID,
			"error":     err.Error(),
		})
		return false
	}
	return sent
}
