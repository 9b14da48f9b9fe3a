package alerts

import (
	"context"
	"fmt"
	"time"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/metrics"
	"compliance-workers/internal/models"
)

// Source reads the state alerts are projected from.
type Source interface {
	ListOpenComplianceItems(ctx context.Context, companyID string) ([]models.ComplianceItem, error)
	ListGrantOpportunities(ctx context.Context, companyID string) ([]models.GrantOpportunity, error)
}

// Store replaces a company's alert set in one atomic step.
type Store interface {
	ReplaceAlerts(ctx context.Context, companyID string, alerts []models.Alert) error
}

// Locker serializes syncs of the same company.
type Locker interface {
	Lock(ctx context.Context, companyID string) (release func(context.Context) error, err error)
}

type Syncer struct {
	source   Source
	store    Store
	locker   Locker
	currency string
	now      func() time.Time
	logger   logger.Logger
}

func NewSyncer(source Source, store Store, locker Locker, currency string, log logger.Logger) *Syncer {
	return &Syncer{
		source:   source,
		store:    store,
		locker:   locker,
		currency: currency,
		now:      time.Now,
		logger:   log,
	}
}

// WithClock replaces the time source used for deadline math.
func (s *Syncer) WithClock(now func() time.Time) *Syncer {
	s.now = now
	return s
}

// Sync recomputes and replaces the alert set of one company and returns the
// number of active alerts. Any read or write failure is returned.
func (s *Syncer) Sync(ctx context.Context, companyID string) (int, error) {
	start := time.Now()
	defer func() {
		metrics.AlertSyncDuration.Observe(time.Since(start).Seconds())
	}()

	if s.locker != nil {
		release, err := s.locker.Lock(ctx, companyID)
		if err != nil {
			return 0, fmt.Errorf("acquire alert sync lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release alert sync lock", map[string]interface{}{
					"companyId": companyID,
					"error":     err.Error(),
				})
			}
		}()
	}

	items, err := s.source.ListOpenComplianceItems(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list compliance items: %w", err)
	}
	opportunities, err := s.source.ListGrantOpportunities(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("list grant opportunities: %w", err)
	}

	alerts := Derive(companyID, items, opportunities, s.now(), s.currency)

	if err := s.store.ReplaceAlerts(ctx, companyID, alerts); err != nil {
		return 0, fmt.Errorf("replace alerts: %w", err)
	}
	for _, a := range alerts {
		metrics.AlertsGenerated.WithLabelValues(a.SourceType).Inc()
	}

	s.logger.Info("alerts synced", map[string]interface{}{
		"companyId":  companyID,
		"compliance": len(items),
		"grants":     len(opportunities),
		"active":     len(alerts),
	})
	return len(alerts), nil
}
