// internal/workers/ai/explain-match/models.go
package explainmatch

type Input struct {
	CompanyID string `json:"companyId"`
	GrantID   string `json:"grantId"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

type Output struct {
	Summary    string `json:"summary"`
	Provider   string `json:"provider"`
	MatchScore int    `json:"matchScore"`
}
