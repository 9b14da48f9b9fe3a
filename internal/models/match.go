package models

const (
	RuleSectorMatch      = "sector_match"
	RuleRegionMatch      = "region_match"
	RuleCompanySizeMatch = "company_size_match"
	RuleCNAEMatch        = "cnae_match"
	RuleFinancialMatch   = "financial_match"
)

// ScoringRule is one weighted criterion. Position orders the breakdown and
// explanations of every match.
type ScoringRule struct {
	ID       string `json:"id"`
	RuleType string `json:"rule_type"`
	Weight   int    `json:"weight"`
	Position int    `json:"position"`
	IsActive bool   `json:"is_active"`
}

type ScoreComponent struct {
	RuleType string `json:"rule_type"`
	Score    int    `json:"score"`
	MaxScore int    `json:"max_score"`
	Reason   string `json:"reason"`
}

const ConfidenceMedium = "medium"

type EconomicEstimation struct {
	MinAmount       float64 `json:"min_amount"`
	MaxAmount       float64 `json:"max_amount"`
	EstimatedAmount float64 `json:"estimated_amount"`
	Confidence      string  `json:"confidence"`
	Currency        string  `json:"currency"`
}

type MatchDetails struct {
	ScoreBreakdown   []ScoreComponent   `json:"score_breakdown"`
	ImpactEstimation EconomicEstimation `json:"impact_estimation"`
	Explanations     []string           `json:"explanations"`
}

type MatchResult struct {
	CompanyID    string       `json:"company_id"`
	GrantID      string       `json:"grant_id"`
	TotalScore   int          `json:"total_score"`
	MatchDetails MatchDetails `json:"match_details"`
}
