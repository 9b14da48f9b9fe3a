package compliance

import (
	"context"
	"fmt"
	"math"
	"time"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/metrics"
	"compliance-workers/internal/models"
)

// Score is the share of compliance items that are completed or not applicable,
// as a rounded percentage. No items means fully compliant.
func Score(items []models.CompanyCompliance) int {
	if len(items) == 0 {
		return 100
	}
	done := 0
	for _, item := range items {
		if item.Status == models.ComplianceStatusCompleted || item.Status == models.ComplianceStatusNotApplicable {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(items)) * 100))
}

type StatusStore interface {
	ListComplianceStatuses(ctx context.Context, companyID string) ([]models.CompanyCompliance, error)
	SetComplianceScore(ctx context.Context, companyID string, score int, at time.Time) error
}

// Aggregator keeps a company's compliance score in step with its task statuses.
type Aggregator struct {
	store  StatusStore
	now    func() time.Time
	logger logger.Logger
}

func NewAggregator(store StatusStore, log logger.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		now:    time.Now,
		logger: log,
	}
}

// WithClock replaces the time source used for the score timestamp.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

func (a *Aggregator) Recalculate(ctx context.Context, companyID string) (int, error) {
	items, err := a.store.ListComplianceStatuses(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list compliance statuses: %w", err)
	}

	score := Score(items)

	if err := a.store.SetComplianceScore(ctx, companyID, score, a.now().UTC()); err != nil {
		return 0, fmt.Errorf("set compliance score: %w", err)
	}
	metrics.ComplianceScoreUpdates.Inc()

	a.logger.Info("compliance score recalculated", map[string]interface{}{
		"companyId": companyID,
		"total":     len(items),
		"score":     score,
	})
	return score, nil
}
