package matching

import (
	"testing"
	"time"

	"compliance-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestGateStrategy_Score(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name          string
		mutateCompany func(*models.Company)
		mutateGrant   func(*models.Grant)
		expectedScore int
	}{
		{
			name:          "all gates pass with open deadline",
			mutateGrant:   func(g *models.Grant) { g.ApplicationDeadline = &future },
			expectedScore: 100,
		},
		{
			name:          "all gates pass without deadline",
			expectedScore: 100,
		},
		{
			name: "wildcards everywhere",
			mutateGrant: func(g *models.Grant) {
				g.Countries = nil
				g.Sectors = nil
				g.CompanySizes = nil
			},
			expectedScore: 80,
		},
		{
			name:          "unknown employee count",
			mutateCompany: func(c *models.Company) { c.EmployeeCount = nil },
			mutateGrant:   func(g *models.Grant) { g.CompanySizes = nil },
			expectedScore: 80,
		},
		{
			name:          "legacy sector wildcard",
			mutateGrant:   func(g *models.Grant) { g.Sectors = []string{models.SectorWildcardLegacy} },
			expectedScore: 100,
		},
		{
			name:          "sector wildcard",
			mutateGrant:   func(g *models.Grant) { g.Sectors = []string{models.SectorWildcard} },
			expectedScore: 100,
		},
		{
			name:          "country mismatch",
			mutateGrant:   func(g *models.Grant) { g.Countries = []string{"PT"} },
			expectedScore: 0,
		},
		{
			name:          "sector mismatch",
			mutateGrant:   func(g *models.Grant) { g.Sectors = []string{"Retail"} },
			expectedScore: 0,
		},
		{
			name:          "size mismatch",
			mutateGrant:   func(g *models.Grant) { g.CompanySizes = []string{models.CompanySizeMedium} },
			expectedScore: 0,
		},
		{
			name:          "too few employees",
			mutateGrant:   func(g *models.Grant) { g.MinEmployees = ptr(20) },
			expectedScore: 0,
		},
		{
			name:          "too many employees",
			mutateGrant:   func(g *models.Grant) { g.MaxEmployees = ptr(10) },
			expectedScore: 0,
		},
		{
			name:          "deadline passed",
			mutateGrant:   func(g *models.Grant) { g.ApplicationDeadline = &past },
			expectedScore: 0,
		},
	}

	strategy := NewGateStrategy(WithClock(func() time.Time { return now }))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			company := createTestCompany()
			grant := createTestGrant()
			if tt.mutateCompany != nil {
				tt.mutateCompany(&company)
			}
			if tt.mutateGrant != nil {
				tt.mutateGrant(&grant)
			}

			assert.Equal(t, tt.expectedScore, strategy.Score(company, grant))
		})
	}
}

func TestGateStrategy_BreakdownStopsAtFailedGate(t *testing.T) {
	grant := createTestGrant()
	grant.CompanySizes = []string{models.CompanySizeMedium}

	result := NewGateStrategy().Evaluate(createTestCompany(), grant)

	assert.Equal(t, 0, result.TotalScore)
	assert.Len(t, result.MatchDetails.ScoreBreakdown, 3)
	assert.Equal(t, 0, result.MatchDetails.ScoreBreakdown[2].Score)
}
