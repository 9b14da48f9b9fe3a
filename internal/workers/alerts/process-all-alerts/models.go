// internal/workers/alerts/process-all-alerts/models.go
package processallalerts

import "compliance-workers/internal/batch"

type Input struct{}

type Output struct {
	CompaniesProcessed int             `json:"companiesProcessed"`
	AlertsGenerated    int             `json:"alertsGenerated"`
	DigestsSent        int             `json:"digestsSent"`
	FailedCompanies    []batch.Failure `json:"failedCompanies"`
}
