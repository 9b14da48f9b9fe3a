package models

import "time"

// SectorWildcard marks a grant or requirement that applies to every sector.
const (
	SectorWildcard       = "all"
	SectorWildcardLegacy = "todos"
)

type Grant struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Issuer              string           `json:"issuer"`
	Countries           []string         `json:"countries"`
	Sectors             []string         `json:"sectors"`
	CompanySizes        []string         `json:"company_sizes"`
	MinEmployees        *int             `json:"min_employees,omitempty"`
	MaxEmployees        *int             `json:"max_employees,omitempty"`
	MinRevenue          *float64         `json:"min_revenue,omitempty"`
	MaxRevenue          *float64         `json:"max_revenue,omitempty"`
	Regions             []string         `json:"regions"`
	PermittedCNAECodes  []string         `json:"permitted_cnae_codes"`
	ApplicationDeadline *time.Time       `json:"application_deadline,omitempty"`
	MaxAmount           *float64         `json:"max_amount,omitempty"`
	EstimationParams    EstimationParams `json:"estimation_params"`
	IsActive            bool             `json:"is_active"`
}

// EstimationParams are the per-grant coefficients used to project a payout.
// A nil or zero value means the coefficient is not set.
type EstimationParams struct {
	BaseAmount          *float64 `json:"base_amount,omitempty"`
	PerEmployee         *float64 `json:"per_employee,omitempty"`
	MaxCap              *float64 `json:"max_cap,omitempty"`
	FixedAmount         *float64 `json:"fixed_amount,omitempty"`
	PercentageOfProject *float64 `json:"percentage_of_project,omitempty"`
	MinAmount           *float64 `json:"min_amount,omitempty"`
}

const (
	GrantStatusOpportunity = "opportunity"
	GrantStatusInProgress  = "in_progress"
	GrantStatusSubmitted   = "submitted"
	GrantStatusAwarded     = "awarded"
	GrantStatusRejected    = "rejected"
)

// CompanyGrant is one persisted match between a company and a grant.
type CompanyGrant struct {
	ID         string        `json:"id"`
	CompanyID  string        `json:"company_id"`
	GrantID    string        `json:"grant_id"`
	MatchScore int           `json:"match_score"`
	MatchData  *MatchDetails `json:"match_data,omitempty"`
	Status     string        `json:"status"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// GrantOpportunity joins a company match with the grant it points at.
type GrantOpportunity struct {
	CompanyGrant
	Grant Grant `json:"grant"`
}
