package compliance

import (
	"testing"
	"time"

	"compliance-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func createTestCompany() models.Company {
	return models.Company{
		ID:          "company-001",
		Country:     "ES",
		Sector:      "Hostelería",
		CompanySize: models.CompanySizeMicro,
	}
}

func TestIsRequirementApplicable(t *testing.T) {
	tests := []struct {
		name     string
		req      models.ComplianceRequirement
		expected bool
	}{
		{name: "no filters", req: models.ComplianceRequirement{}, expected: true},
		{name: "country listed", req: models.ComplianceRequirement{Countries: []string{"ES", "PT"}}, expected: true},
		{name: "country excluded", req: models.ComplianceRequirement{Countries: []string{"FR"}}, expected: false},
		{name: "sector listed", req: models.ComplianceRequirement{Sectors: []string{"Hostelería"}}, expected: true},
		{name: "sector wildcard", req: models.ComplianceRequirement{Sectors: []string{"all"}}, expected: true},
		{name: "legacy sector wildcard", req: models.ComplianceRequirement{Sectors: []string{"todos"}}, expected: true},
		{name: "sector excluded", req: models.ComplianceRequirement{Sectors: []string{"Construcción"}}, expected: false},
		{name: "size listed", req: models.ComplianceRequirement{CompanySizes: []string{"micro", "small"}}, expected: true},
		{name: "size excluded", req: models.ComplianceRequirement{CompanySizes: []string{"medium"}}, expected: false},
		{
			name: "all filters must pass",
			req: models.ComplianceRequirement{
				Countries:    []string{"ES"},
				Sectors:      []string{"Hostelería"},
				CompanySizes: []string{"medium"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRequirementApplicable(tt.req, createTestCompany()))
		})
	}
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, Priority(models.ComplianceRequirement{Severity: models.SeverityCritical}))
	assert.Equal(t, 4, Priority(models.ComplianceRequirement{Severity: models.SeverityHigh}))
	assert.Equal(t, 3, Priority(models.ComplianceRequirement{Severity: models.SeverityMedium}))
	assert.Equal(t, 2, Priority(models.ComplianceRequirement{Severity: models.SeverityLow}))
	assert.Equal(t, 1, Priority(models.ComplianceRequirement{Severity: "info"}))
}

func TestNextDueDate(t *testing.T) {
	now := time.Date(2026, 11, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		recurring bool
		frequency *string
		expected  string
	}{
		{name: "monthly", recurring: true, frequency: strPtr("monthly"), expected: "2026-12-20"},
		{name: "quarterly rolls the year", recurring: true, frequency: strPtr("quarterly"), expected: "2027-02-20"},
		{name: "annual", recurring: true, frequency: strPtr("annual"), expected: "2027-04-30"},
		{name: "unknown frequency", recurring: true, frequency: strPtr("weekly")},
		{name: "not recurring", recurring: false, frequency: strPtr("monthly")},
		{name: "no frequency", recurring: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.ComplianceRequirement{IsRecurring: tt.recurring, Frequency: tt.frequency}
			due := NextDueDate(req, now)
			if tt.expected == "" {
				assert.Nil(t, due)
				return
			}
			require.NotNil(t, due)
			assert.Equal(t, tt.expected, due.Format("2006-01-02"))
		})
	}
}

func TestNextDueDate_MonthEnd(t *testing.T) {
	// January 31 plus one month lands on February 20, not March.
	now := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	due := NextDueDate(models.ComplianceRequirement{IsRecurring: true, Frequency: strPtr("monthly")}, now)
	require.NotNil(t, due)
	assert.Equal(t, "2026-02-20", due.Format("2006-01-02"))
}

func TestMatchRequirements(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	reqs := []models.ComplianceRequirement{
		{ID: "req-low", Severity: models.SeverityLow},
		{ID: "req-foreign", Severity: models.SeverityCritical, Countries: []string{"FR"}},
		{ID: "req-critical", Severity: models.SeverityCritical, IsRecurring: true, Frequency: strPtr("quarterly")},
		{ID: "req-medium", Severity: models.SeverityMedium},
	}

	matches := MatchRequirements(reqs, createTestCompany(), now)

	require.Len(t, matches, 3)
	assert.Equal(t, "req-critical", matches[0].RequirementID)
	assert.Equal(t, 5, matches[0].Priority)
	require.NotNil(t, matches[0].DueDate)
	assert.Equal(t, "2026-08-20", matches[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "req-medium", matches[1].RequirementID)
	assert.Equal(t, "req-low", matches[2].RequirementID)
	assert.Nil(t, matches[2].DueDate)
}
