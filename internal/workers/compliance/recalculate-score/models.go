// internal/workers/compliance/recalculate-score/models.go
package recalculatescore

type Input struct {
	CompanyID string `json:"companyId"`
}

type Output struct {
	ComplianceScore int `json:"complianceScore"`
}
