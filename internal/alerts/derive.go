package alerts

import (
	"fmt"
	"math"
	"time"

	"compliance-workers/internal/matching"
	"compliance-workers/internal/models"
)

const (
	// GrantScoreThreshold is the minimum match score that surfaces a grant alert.
	GrantScoreThreshold = 50
	// PremiumIncomeThreshold is the potential income above which a grant alert is premium.
	PremiumIncomeThreshold = 2000

	escalateHighDays     = 7
	escalateCriticalDays = 3
)

var fineBySeverity = map[string]float64{
	models.SeverityCritical: 7500,
	models.SeverityHigh:     3000,
	models.SeverityMedium:   1000,
}

// Derive rebuilds the full alert set for a company from its open compliance
// items followed by its grant opportunities.
func Derive(companyID string, items []models.ComplianceItem, opportunities []models.GrantOpportunity, now time.Time, currency string) []models.Alert {
	out := DeriveCompliance(companyID, items, now)
	return append(out, DeriveGrants(companyID, opportunities, now, currency)...)
}

func DeriveCompliance(companyID string, items []models.ComplianceItem, now time.Time) []models.Alert {
	out := make([]models.Alert, 0, len(items))
	for _, item := range items {
		if item.Status == models.ComplianceStatusCompleted {
			continue
		}
		req := item.Requirement

		days := daysUntil(item.DueDate, now)
		risk := escalate(severityRisk(req.Severity), days)
		impact := fineBySeverity[req.Severity]
		teaser := fmt.Sprintf("Evita sanciones de hasta %.0f€. Genera la documentación necesaria en 1 clic.", impact)

		status := models.AlertStatusPending
		if item.Status == models.ComplianceStatusInProgress {
			status = models.AlertStatusInProgress
		}

		out = append(out, models.Alert{
			CompanyID:      companyID,
			SourceType:     models.AlertSourceCompliance,
			SourceID:       item.ID,
			Title:          req.Title,
			Description:    req.Description,
			RiskLevel:      risk,
			EconomicImpact: impact,
			ImpactType:     models.ImpactFineRisk,
			Deadline:       item.DueDate,
			DeadlineLabel:  DeadlineLabel(days),
			CTAAction:      "generate_document",
			CTATarget:      "/dashboard/compliance/" + item.ID,
			CTALabel:       "Resolver riesgo ahora",
			Status:         status,
			IsPremium:      risk == models.RiskCritical || risk == models.RiskHigh,
			TeaserMessage:  &teaser,
		})
	}
	return out
}

func DeriveGrants(companyID string, opportunities []models.GrantOpportunity, now time.Time, currency string) []models.Alert {
	out := make([]models.Alert, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.Status != models.GrantStatusOpportunity || opp.MatchScore < GrantScoreThreshold {
			continue
		}
		grant := opp.Grant

		impact := potentialIncome(opp)
		days := daysUntil(grant.ApplicationDeadline, now)
		teaser := fmt.Sprintf("Hemos detectado %s potenciales. Desbloquea el asistente para solicitarlos.",
			matching.FormatAmount(impact, currency))

		out = append(out, models.Alert{
			CompanyID:      companyID,
			SourceType:     models.AlertSourceGrant,
			SourceID:       opp.ID,
			Title:          "Oportunidad: " + grant.Title,
			Description:    fmt.Sprintf("Subvención detectada con un match del %d%%", opp.MatchScore),
			RiskLevel:      models.RiskOpportunity,
			EconomicImpact: impact,
			ImpactType:     models.ImpactPotentialIncome,
			Deadline:       grant.ApplicationDeadline,
			DeadlineLabel:  DeadlineLabel(days),
			CTAAction:      "request_help",
			CTATarget:      "/dashboard/grants/" + opp.ID,
			CTALabel:       "Solicitar ayuda",
			Status:         models.AlertStatusPending,
			IsPremium:      impact > PremiumIncomeThreshold,
			TeaserMessage:  &teaser,
		})
	}
	return out
}

// DeadlineLabel formats days remaining. Only deadlines within a week get a label.
func DeadlineLabel(days *int) *string {
	if days == nil {
		return nil
	}
	switch d := *days; {
	case d < 0:
		return stringPtr("Vencido")
	case d == 0:
		return stringPtr("Vence hoy")
	case d == 1:
		return stringPtr("Mañana")
	case d <= escalateHighDays:
		return stringPtr(fmt.Sprintf("%d días restantes", d))
	default:
		return nil
	}
}

// DaysRemaining rounds the time left up to whole days.
func DaysRemaining(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}

func daysUntil(target *time.Time, now time.Time) *int {
	if target == nil {
		return nil
	}
	d := DaysRemaining(*target, now)
	return &d
}

func severityRisk(severity string) string {
	switch severity {
	case models.SeverityCritical:
		return models.RiskCritical
	case models.SeverityHigh:
		return models.RiskHigh
	case models.SeverityLow:
		return models.RiskLow
	default:
		return models.RiskMedium
	}
}

// escalate only ever raises the risk level as the deadline approaches.
func escalate(risk string, days *int) string {
	if days == nil {
		return risk
	}
	if *days <= escalateHighDays && risk != models.RiskCritical {
		risk = models.RiskHigh
	}
	if *days <= escalateCriticalDays {
		risk = models.RiskCritical
	}
	return risk
}

func potentialIncome(opp models.GrantOpportunity) float64 {
	if opp.MatchData != nil && opp.MatchData.ImpactEstimation.EstimatedAmount > 0 {
		return opp.MatchData.ImpactEstimation.EstimatedAmount
	}
	if opp.Grant.MaxAmount != nil {
		return *opp.Grant.MaxAmount
	}
	return 0
}

func stringPtr(s string) *string {
	return &s
}
