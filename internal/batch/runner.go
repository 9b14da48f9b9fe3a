// Package batch drives the matching engine and alert sync across companies.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/models"
)

type RuleReader interface {
	ListActiveScoringRules(ctx context.Context) ([]models.ScoringRule, error)
}

type Catalog interface {
	ListActiveGrants(ctx context.Context, asOf time.Time) ([]models.Grant, error)
	ListAllActiveGrants(ctx context.Context) ([]models.Grant, error)
	ListRequirements(ctx context.Context) ([]models.ComplianceRequirement, error)
}

type Companies interface {
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

type MatchWriter interface {
	UpsertCompanyGrant(ctx context.Context, companyID, grantID string, score int, details models.MatchDetails, status string) error
	UpsertComplianceMatches(ctx context.Context, companyID string, matches []models.RequirementMatch) error
}

type ScoreRecalculator interface {
	Recalculate(ctx context.Context, companyID string) (int, error)
}

type AlertSyncer interface {
	Sync(ctx context.Context, companyID string) (int, error)
}

// OperatorNotifier surfaces persistent failures outside the logs.
type OperatorNotifier interface {
	OperatorAlert(ctx context.Context, subject, message string) error
}

// Digester sends a company its urgent alerts after a sync.
type Digester interface {
	CriticalDigest(ctx context.Context, company models.Company, alerts []models.Alert) (bool, error)
}

type AlertReader interface {
	ListAlerts(ctx context.Context, companyID string) ([]models.Alert, error)
}

type Config struct {
	BatchStrategy    string
	SingleStrategy   string
	PersistThreshold int
	Concurrency      int
	Currency         string
}

type Deps struct {
	Rules     RuleReader
	Catalog   Catalog
	Companies Companies
	Writer    MatchWriter
	Scores    ScoreRecalculator
	Alerts    AlertSyncer
	// Optional.
	Notifier    OperatorNotifier
	Digester    Digester
	AlertReader AlertReader
}

// Failure is one company that could not be processed in a batch pass.
type Failure struct {
	CompanyID string `json:"companyId"`
	Error     string `json:"error"`
}

type Runner struct {
	config Config
	deps   Deps
	now    func() time.Time
	obs    *observability.Observability
	logger logger.Logger
}

func NewRunner(cfg Config, deps Deps, log logger.Logger) *Runner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Runner{
		config: cfg,
		deps:   deps,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log,
	}
}

// WithClock replaces the time source for deadlines and due dates.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// WithObservability records pass-level metrics on obs.
func (r *Runner) WithObservability(obs *observability.Observability) *Runner {
	r.obs = obs
	return r
}

// failures collects per-company errors from concurrent goroutines.
type failures struct {
	mu   sync.Mutex
	list []Failure
}

func (f *failures) add(companyID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = append(f.list, Failure{CompanyID: companyID, Error: err.Error()})
}

func (f *failures) result() []Failure {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Failure, len(f.list))
	copy(out, f.list)
	return out
}

func (r *Runner) reportFailures(ctx context.Context, pass string, failed []Failure) {
	if len(failed) == 0 || r.deps.Notifier == nil {
		return
	}

	msg := fmt.Sprintf("%d companies failed during %s", len(failed), pass)
	for i, f := range failed {
		if i == 10 {
			msg += fmt.Sprintf("\n... and %d more", len(failed)-i)
			break
		}
		msg += fmt.Sprintf("\n%s: %s", f.CompanyID, f.Error)
	}

	if err := r.deps.Notifier.OperatorAlert(ctx, fmt.Sprintf("compliance-workers: %s failures", pass), msg); err != nil {
		r.logger.Error("failed to notify operators", map[string]interface{}{
			"pass":  pass,
			"error": err.Error(),
		})
	}
}
