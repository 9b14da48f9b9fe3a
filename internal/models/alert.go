package models

import "time"

const (
	AlertSourceCompliance = "compliance"
	AlertSourceGrant      = "grant"
)

const (
	RiskCritical    = "critical"
	RiskHigh        = "high"
	RiskMedium      = "medium"
	RiskLow         = "low"
	RiskOpportunity = "opportunity"
)

const (
	ImpactFineRisk        = "fine_risk"
	ImpactPotentialIncome = "potential_income"
)

const (
	AlertStatusPending    = "pending"
	AlertStatusInProgress = "in_progress"
)

// Alert is a derived record. The whole set for a company is rebuilt on every sync.
type Alert struct {
	ID             string     `json:"id"`
	CompanyID      string     `json:"company_id"`
	SourceType     string     `json:"source_type"`
	SourceID       string     `json:"source_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RiskLevel      string     `json:"risk_level"`
	EconomicImpact float64    `json:"economic_impact"`
	ImpactType     string     `json:"impact_type"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	DeadlineLabel  *string    `json:"deadline_label,omitempty"`
	CTAAction      string     `json:"cta_action"`
	CTATarget      string     `json:"cta_target"`
	CTALabel       string     `json:"cta_label"`
	Status         string     `json:"status"`
	IsPremium      bool       `json:"is_premium"`
	TeaserMessage  *string    `json:"teaser_message,omitempty"`
}
