// internal/workers/alerts/sync-alerts/models.go
package syncalerts

type Input struct {
	CompanyID string `json:"companyId"`
}

type Output struct {
	AlertsActive int `json:"alertsActive"`
}
