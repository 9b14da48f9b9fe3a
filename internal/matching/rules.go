package matching

import (
	"fmt"
	"slices"

	"compliance-workers/internal/models"
)

// EvaluateRule scores one rule against a company/grant pair. A rule contributes
// either its full weight or nothing; unknown rule types contribute nothing.
func EvaluateRule(company models.Company, grant models.Grant, rule models.ScoringRule) models.ScoreComponent {
	matched, reason := false, ""

	switch rule.RuleType {
	case models.RuleSectorMatch:
		if slices.Contains(grant.Sectors, company.Sector) {
			matched = true
			reason = fmt.Sprintf("Tu sector (%s) está incluido en la ayuda.", company.Sector)
		}

	case models.RuleRegionMatch:
		if len(grant.Regions) == 0 {
			matched = true
			reason = "Ayuda de ámbito nacional."
		} else if company.Region != nil && slices.Contains(grant.Regions, *company.Region) {
			matched = true
			reason = fmt.Sprintf("Tu región (%s) es elegible.", *company.Region)
		}

	case models.RuleCompanySizeMatch:
		if slices.Contains(grant.CompanySizes, company.CompanySize) {
			matched = true
			reason = fmt.Sprintf("Tu tamaño de empresa (%s) encaja con los requisitos.", company.CompanySize)
		}

	case models.RuleCNAEMatch:
		// An empty permitted list is no bonus, unlike regions.
		if company.CNAECode != nil && slices.Contains(grant.PermittedCNAECodes, *company.CNAECode) {
			matched = true
			reason = fmt.Sprintf("Tu CNAE (%s) está explícitamente incluido.", *company.CNAECode)
		}

	case models.RuleFinancialMatch:
		if revenueWithinBounds(company.AnnualRevenue, grant.MinRevenue, grant.MaxRevenue) {
			matched = true
			reason = "Cumples con los requisitos de facturación."
		}
	}

	component := models.ScoreComponent{
		RuleType: rule.RuleType,
		MaxScore: rule.Weight,
	}
	if matched {
		component.Score = rule.Weight
	}
	if component.Score > 0 {
		component.Reason = reason
	}
	return component
}

// revenueWithinBounds treats an unknown revenue as eligible and a missing bound as open.
func revenueWithinBounds(revenue, min, max *float64) bool {
	if revenue == nil {
		return true
	}
	if min != nil && *revenue < *min {
		return false
	}
	if max != nil && *revenue > *max {
		return false
	}
	return true
}
