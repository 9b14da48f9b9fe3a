package compliance

import (
	"slices"
	"sort"
	"time"

	"compliance-workers/internal/models"
)

// Day of month recurring filings fall due on, and the annual filing date.
const (
	recurringDueDay = 20
	annualDueMonth  = time.April
	annualDueDay    = 30
	defaultPriority = 1
)

var severityPriority = map[string]int{
	models.SeverityCritical: 5,
	models.SeverityHigh:     4,
	models.SeverityMedium:   3,
	models.SeverityLow:      2,
}

// IsRequirementApplicable reports whether a requirement applies to a company.
// Empty filter lists match everything.
func IsRequirementApplicable(req models.ComplianceRequirement, company models.Company) bool {
	if len(req.Countries) > 0 && !slices.Contains(req.Countries, company.Country) {
		return false
	}
	if len(req.Sectors) > 0 &&
		!slices.Contains(req.Sectors, models.SectorWildcard) &&
		!slices.Contains(req.Sectors, models.SectorWildcardLegacy) &&
		!slices.Contains(req.Sectors, company.Sector) {
		return false
	}
	if len(req.CompanySizes) > 0 && !slices.Contains(req.CompanySizes, company.CompanySize) {
		return false
	}
	return true
}

func Priority(req models.ComplianceRequirement) int {
	if p, ok := severityPriority[req.Severity]; ok {
		return p
	}
	return defaultPriority
}

// NextDueDate returns the next filing date of a recurring requirement, at UTC
// midnight, or nil when the requirement does not recur.
func NextDueDate(req models.ComplianceRequirement, now time.Time) *time.Time {
	if !req.IsRecurring || req.Frequency == nil {
		return nil
	}
	now = now.UTC()

	var due time.Time
	switch *req.Frequency {
	case models.FrequencyMonthly:
		due = time.Date(now.Year(), now.Month()+1, recurringDueDay, 0, 0, 0, 0, time.UTC)
	case models.FrequencyQuarterly:
		due = time.Date(now.Year(), now.Month()+3, recurringDueDay, 0, 0, 0, 0, time.UTC)
	case models.FrequencyAnnual:
		due = time.Date(now.Year()+1, annualDueMonth, annualDueDay, 0, 0, 0, 0, time.UTC)
	default:
		return nil
	}
	return &due
}

// MatchRequirements returns the requirements applicable to a company, most
// urgent priority first. Ties keep catalog order.
func MatchRequirements(reqs []models.ComplianceRequirement, company models.Company, now time.Time) []models.RequirementMatch {
	matches := make([]models.RequirementMatch, 0, len(reqs))
	for _, req := range reqs {
		if !IsRequirementApplicable(req, company) {
			continue
		}
		matches = append(matches, models.RequirementMatch{
			RequirementID: req.ID,
			Priority:      Priority(req),
			DueDate:       NextDueDate(req, now),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority > matches[j].Priority
	})
	return matches
}
