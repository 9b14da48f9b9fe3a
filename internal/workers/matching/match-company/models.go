// internal/workers/matching/match-company/models.go
package matchcompany

type Input struct {
	CompanyID string `json:"companyId"`
}

type Output struct {
	ComplianceScore   int `json:"complianceScore"`
	TotalRequirements int `json:"totalRequirements"`
	TotalGrants       int `json:"totalGrants"`
}
