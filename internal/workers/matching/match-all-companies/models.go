// internal/workers/matching/match-all-companies/models.go
package matchallcompanies

import (
	"time"

	"compliance-workers/internal/batch"
)

type Input struct {
	AsOf *time.Time `json:"asOf,omitempty"`
}

type Output struct {
	Companies         int             `json:"companies"`
	Grants            int             `json:"grants"`
	TotalCombinations int             `json:"totalCombinations"`
	MatchesFound      int             `json:"matchesFound"`
	FailedCompanies   []batch.Failure `json:"failedCompanies"`
}
