package matching

import (
	"fmt"
	"time"

	"compliance-workers/internal/models"
)

const (
	minTotalScore = 0
	maxTotalScore = 100
)

// Engine is the rule-weighted scoring strategy. It is safe for concurrent use;
// the rule list is copied on construction and never mutated.
type Engine struct {
	rules     []models.ScoringRule
	estimator *Estimator
}

func NewEngine(rules []models.ScoringRule, opts ...Option) *Engine {
	o := newOptions(opts)
	return &Engine{
		rules:     append([]models.ScoringRule(nil), rules...),
		estimator: NewEstimator(o.currency),
	}
}

func (e *Engine) Name() string {
	return StrategyRuleWeighted
}

// Evaluate runs every active rule in order, clamps the sum to [0, 100] and
// attaches the impact estimation and explanations.
func (e *Engine) Evaluate(company models.Company, grant models.Grant) models.MatchResult {
	breakdown := make([]models.ScoreComponent, 0, len(e.rules))
	total := 0
	for _, rule := range e.rules {
		if !rule.IsActive {
			continue
		}
		component := EvaluateRule(company, grant, rule)
		breakdown = append(breakdown, component)
		total += component.Score
	}

	impact := e.estimator.Estimate(company, grant)

	return models.MatchResult{
		CompanyID:  company.ID,
		GrantID:    grant.ID,
		TotalScore: clampScore(total),
		MatchDetails: models.MatchDetails{
			ScoreBreakdown:   breakdown,
			ImpactEstimation: impact,
			Explanations:     explain(breakdown, impact),
		},
	}
}

func explain(breakdown []models.ScoreComponent, impact models.EconomicEstimation) []string {
	explanations := []string{}
	for _, c := range breakdown {
		if c.Score > 0 && c.Reason != "" {
			explanations = append(explanations, c.Reason)
		}
	}
	if impact.EstimatedAmount > 0 {
		explanations = append(explanations, fmt.Sprintf("Estimamos que podrías recibir hasta %s.",
			FormatAmount(impact.EstimatedAmount, impact.Currency)))
	}
	return explanations
}

func clampScore(score int) int {
	if score < minTotalScore {
		return minTotalScore
	}
	if score > maxTotalScore {
		return maxTotalScore
	}
	return score
}

type options struct {
	currency string
	now      func() time.Time
}

// Option configures a scoring strategy.
type Option func(*options)

func WithCurrency(currency string) Option {
	return func(o *options) { o.currency = currency }
}

// WithClock sets the time source used for deadline gates.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{currency: DefaultCurrency, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
