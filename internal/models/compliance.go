package models

import "time"

const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnual    = "annual"
)

type ComplianceRequirement struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Severity     string   `json:"severity"`
	Countries    []string `json:"countries"`
	Sectors      []string `json:"sectors"`
	CompanySizes []string `json:"company_sizes"`
	IsRecurring  bool     `json:"is_recurring"`
	Frequency    *string  `json:"frequency,omitempty"`
}

const (
	ComplianceStatusPending       = "pending"
	ComplianceStatusInProgress    = "in_progress"
	ComplianceStatusCompleted     = "completed"
	ComplianceStatusNotApplicable = "not_applicable"
)

type CompanyCompliance struct {
	ID            string     `json:"id"`
	CompanyID     string     `json:"company_id"`
	RequirementID string     `json:"requirement_id"`
	Status        string     `json:"status"`
	Priority      int        `json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ComplianceItem joins a company's compliance row with its requirement.
type ComplianceItem struct {
	CompanyCompliance
	Requirement ComplianceRequirement `json:"requirement"`
}

// RequirementMatch is an applicable requirement for a company before it is persisted.
type RequirementMatch struct {
	RequirementID string     `json:"requirement_id"`
	Priority      int        `json:"priority"`
	DueDate       *time.Time `json:"due_date,omitempty"`
}
