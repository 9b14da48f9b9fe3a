package models

import "time"

const (
	CompanySizeMicro  = "micro"
	CompanySizeSmall  = "small"
	CompanySizeMedium = "medium"
)

type Company struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Country         string     `json:"country"`
	Region          *string    `json:"region,omitempty"`
	Sector          string     `json:"sector"`
	CompanySize     string     `json:"company_size"`
	EmployeeCount   *int       `json:"employee_count,omitempty"`
	AnnualRevenue   *float64   `json:"annual_revenue,omitempty"`
	CNAECode        *string    `json:"cnae_code,omitempty"`
	ComplianceScore int        `json:"compliance_score"`
	LastScoreUpdate *time.Time `json:"last_score_update,omitempty"`
}
