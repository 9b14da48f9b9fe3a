package matching

import (
	"testing"

	"compliance-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func createTestCompany() models.Company {
	return models.Company{
		ID:            "company-001",
		Country:       "ES",
		Region:        ptr("Madrid"),
		Sector:        "Technology",
		CompanySize:   models.CompanySizeSmall,
		EmployeeCount: ptr(15),
		AnnualRevenue: ptr(500000.0),
		CNAECode:      ptr("6201"),
	}
}

func createTestGrant() models.Grant {
	return models.Grant{
		ID:           "grant-001",
		Title:        "Kit Digital",
		Countries:    []string{"ES"},
		Sectors:      []string{"Technology"},
		CompanySizes: []string{models.CompanySizeMicro, models.CompanySizeSmall},
		IsActive:     true,
	}
}

func TestEvaluateRule(t *testing.T) {
	tests := []struct {
		name           string
		ruleType       string
		mutateCompany  func(*models.Company)
		mutateGrant    func(*models.Grant)
		expectedScore  int
		expectedReason string
	}{
		{
			name:           "sector included",
			ruleType:       models.RuleSectorMatch,
			expectedScore:  40,
			expectedReason: "Tu sector (Technology) está incluido en la ayuda.",
		},
		{
			name:          "sector excluded",
			ruleType:      models.RuleSectorMatch,
			mutateGrant:   func(g *models.Grant) { g.Sectors = []string{"Retail"} },
			expectedScore: 0,
		},
		{
			name:           "region listed",
			ruleType:       models.RuleRegionMatch,
			mutateGrant:    func(g *models.Grant) { g.Regions = []string{"Madrid", "Cataluña"} },
			expectedScore:  40,
			expectedReason: "Tu región (Madrid) es elegible.",
		},
		{
			name:           "national grant",
			ruleType:       models.RuleRegionMatch,
			expectedScore:  40,
			expectedReason: "Ayuda de ámbito nacional.",
		},
		{
			name:          "region not listed",
			ruleType:      models.RuleRegionMatch,
			mutateGrant:   func(g *models.Grant) { g.Regions = []string{"Galicia"} },
			expectedScore: 0,
		},
		{
			name:          "company without region on regional grant",
			ruleType:      models.RuleRegionMatch,
			mutateCompany: func(c *models.Company) { c.Region = nil },
			mutateGrant:   func(g *models.Grant) { g.Regions = []string{"Madrid"} },
			expectedScore: 0,
		},
		{
			name:           "size included",
			ruleType:       models.RuleCompanySizeMatch,
			expectedScore:  40,
			expectedReason: "Tu tamaño de empresa (small) encaja con los requisitos.",
		},
		{
			name:          "size excluded",
			ruleType:      models.RuleCompanySizeMatch,
			mutateCompany: func(c *models.Company) { c.CompanySize = models.CompanySizeMedium },
			expectedScore: 0,
		},
		{
			name:           "cnae listed",
			ruleType:       models.RuleCNAEMatch,
			mutateGrant:    func(g *models.Grant) { g.PermittedCNAECodes = []string{"6201", "6202"} },
			expectedScore:  40,
			expectedReason: "Tu CNAE (6201) está explícitamente incluido.",
		},
		{
			name:          "empty cnae list gives no bonus",
			ruleType:      models.RuleCNAEMatch,
			expectedScore: 0,
		},
		{
			name:          "company without cnae",
			ruleType:      models.RuleCNAEMatch,
			mutateCompany: func(c *models.Company) { c.CNAECode = nil },
			mutateGrant:   func(g *models.Grant) { g.PermittedCNAECodes = []string{"6201"} },
			expectedScore: 0,
		},
		{
			name:           "revenue within bounds",
			ruleType:       models.RuleFinancialMatch,
			mutateGrant:    func(g *models.Grant) { g.MinRevenue = ptr(100000.0); g.MaxRevenue = ptr(1000000.0) },
			expectedScore:  40,
			expectedReason: "Cumples con los requisitos de facturación.",
		},
		{
			name:          "revenue below minimum",
			ruleType:      models.RuleFinancialMatch,
			mutateGrant:   func(g *models.Grant) { g.MinRevenue = ptr(750000.0) },
			expectedScore: 0,
		},
		{
			name:          "revenue above maximum",
			ruleType:      models.RuleFinancialMatch,
			mutateGrant:   func(g *models.Grant) { g.MaxRevenue = ptr(250000.0) },
			expectedScore: 0,
		},
		{
			name:           "unknown revenue is eligible",
			ruleType:       models.RuleFinancialMatch,
			mutateCompany:  func(c *models.Company) { c.AnnualRevenue = nil },
			mutateGrant:    func(g *models.Grant) { g.MinRevenue = ptr(750000.0) },
			expectedScore:  40,
			expectedReason: "Cumples con los requisitos de facturación.",
		},
		{
			name:          "unsupported rule type",
			ruleType:      "employee_growth_match",
			expectedScore: 0,
		},
	}

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

			rule := models.ScoringRule{RuleType: tt.ruleType, Weight: 40, IsActive: true}
			component := EvaluateRule(company, grant, rule)

			assert.Equal(t, tt.ruleType, component.RuleType)
			assert.Equal(t, 40, component.MaxScore)
			assert.Equal(t, tt.expectedScore, component.Score)
			assert.Equal(t, tt.expectedReason, component.Reason)
		})
	}
}

func TestEvaluateRule_BinaryContribution(t *testing.T) {
	company := createTestCompany()
	grant := createTestGrant()
	ruleTypes := []string{
		models.RuleSectorMatch,
		models.RuleRegionMatch,
		models.RuleCompanySizeMatch,
		models.RuleCNAEMatch,
		models.RuleFinancialMatch,
		"unknown",
	}

	for _, weight := range []int{0, 5, 25, 40} {
		for _, ruleType := range ruleTypes {
			c := EvaluateRule(company, grant, models.ScoringRule{RuleType: ruleType, Weight: weight, IsActive: true})
			assert.Contains(t, []int{0, weight}, c.Score, "rule %s weight %d", ruleType, weight)
		}
	}
}
