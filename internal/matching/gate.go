package matching

import (
	"slices"
	"time"

	"compliance-workers/internal/models"
)

// Point allotments of the gate-based model.
const (
	gateCountryPoints      = 30
	gateSectorPoints       = 30
	gateAnySectorPoints    = 20
	gateSizePoints         = 25
	gateAnySizePoints      = 15
	gateEmployeesPoints    = 15
	gateUnknownStaffPoints = 5
	gateOpenDeadlinePoints = 10
)

const (
	gateRuleCountry   = "country_gate"
	gateRuleSector    = "sector_gate"
	gateRuleSize      = "company_size_gate"
	gateRuleEmployees = "employee_gate"
	gateRuleDeadline  = "deadline_gate"
)

// GateStrategy is the legacy single-pass model: hard eligibility gates followed
// by fixed point allotments per dimension. Any failed gate scores the grant 0.
type GateStrategy struct {
	estimator *Estimator
	now       func() time.Time
}

func NewGateStrategy(opts ...Option) *GateStrategy {
	o := newOptions(opts)
	return &GateStrategy{
		estimator: NewEstimator(o.currency),
		now:       o.now,
	}
}

func (g *GateStrategy) Name() string {
	return StrategyGateBased
}

func (g *GateStrategy) Evaluate(company models.Company, grant models.Grant) models.MatchResult {
	breakdown, ok := g.gates(company, grant)
	total := 0
	if ok {
		for _, c := range breakdown {
			total += c.Score
		}
	}

	impact := g.estimator.Estimate(company, grant)

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

// Score returns only the gate score.
func (g *GateStrategy) Score(company models.Company, grant models.Grant) int {
	return g.Evaluate(company, grant).TotalScore
}

// gates returns the components evaluated so far and false as soon as one gate fails.
func (g *GateStrategy) gates(company models.Company, grant models.Grant) ([]models.ScoreComponent, bool) {
	var out []models.ScoreComponent

	if len(grant.Countries) > 0 && !slices.Contains(grant.Countries, company.Country) {
		return append(out, gate(gateRuleCountry, 0, gateCountryPoints)), false
	}
	out = append(out, gate(gateRuleCountry, gateCountryPoints, gateCountryPoints))

	if len(grant.Sectors) > 0 {
		if !sectorAllowed(grant.Sectors, company.Sector) {
			return append(out, gate(gateRuleSector, 0, gateSectorPoints)), false
		}
		out = append(out, gate(gateRuleSector, gateSectorPoints, gateSectorPoints))
	} else {
		out = append(out, gate(gateRuleSector, gateAnySectorPoints, gateSectorPoints))
	}

	if len(grant.CompanySizes) > 0 {
		if !slices.Contains(grant.CompanySizes, company.CompanySize) {
			return append(out, gate(gateRuleSize, 0, gateSizePoints)), false
		}
		out = append(out, gate(gateRuleSize, gateSizePoints, gateSizePoints))
	} else {
		out = append(out, gate(gateRuleSize, gateAnySizePoints, gateSizePoints))
	}

	if company.EmployeeCount != nil {
		n := *company.EmployeeCount
		if (grant.MinEmployees != nil && n < *grant.MinEmployees) ||
			(grant.MaxEmployees != nil && n > *grant.MaxEmployees) {
			return append(out, gate(gateRuleEmployees, 0, gateEmployeesPoints)), false
		}
		out = append(out, gate(gateRuleEmployees, gateEmployeesPoints, gateEmployeesPoints))
	} else {
		out = append(out, gate(gateRuleEmployees, gateUnknownStaffPoints, gateEmployeesPoints))
	}

	if grant.ApplicationDeadline != nil {
		if grant.ApplicationDeadline.Before(g.now()) {
			return append(out, gate(gateRuleDeadline, 0, gateOpenDeadlinePoints)), false
		}
		out = append(out, gate(gateRuleDeadline, gateOpenDeadlinePoints, gateOpenDeadlinePoints))
	}

	return out, true
}

func gate(ruleType string, score, max int) models.ScoreComponent {
	return models.ScoreComponent{RuleType: ruleType, Score: score, MaxScore: max}
}

func sectorAllowed(sectors []string, sector string) bool {
	return slices.Contains(sectors, models.SectorWildcard) ||
		slices.Contains(sectors, models.SectorWildcardLegacy) ||
		slices.Contains(sectors, sector)
}
