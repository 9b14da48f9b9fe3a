package matching

import (
	"errors"
	"fmt"

	"compliance-workers/internal/models"
)

const (
	StrategyRuleWeighted = "rule_weighted"
	StrategyGateBased    = "gate_based"
)

var ErrUnknownStrategy = errors.New("unknown scoring strategy")

// ScoringStrategy scores one company against one grant. Implementations are pure.
type ScoringStrategy interface {
	Name() string
	Evaluate(company models.Company, grant models.Grant) models.MatchResult
}

// NewStrategy builds the named strategy. Rules are ignored by the gate-based model.
func NewStrategy(name string, rules []models.ScoringRule, opts ...Option) (ScoringStrategy, error) {
	switch name {
	case StrategyRuleWeighted:
		return NewEngine(rules, opts...), nil
	case StrategyGateBased:
		return NewGateStrategy(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}
