// internal/workers/ai/explain-match/handler_test.go
package explainmatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"compliance-workers/internal/common/config"
	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/models"
	"compliance-workers/internal/repository"
	"compliance-workers/internal/textgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeStore struct {
	company  *models.Company
	match    *models.GrantOpportunity
	matchErr error
}

func (f *fakeStore) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	if f.company == nil || f.company.ID != id {
		return nil, fmt.Errorf("%w: %s", repository.ErrCompanyNotFound, id)
	}
	return f.company, nil
}

func (f *fakeStore) GetCompanyGrant(ctx context.Context, companyID, grantID string) (*models.GrantOpportunity, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.match, nil
}

type fakeGenerator struct {
	text      string
	err       error
	prompt    string
	maxTokens int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	f.prompt = prompt
	f.maxTokens = maxTokens
	return f.text, f.err
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, MaxTokens: 300, Currency: "EUR"}
}

func createTestStore() *fakeStore {
	region := "Andalucía"
	deadline := time.Date(2025, 11, 30, 0, 0, 0, 0, time.UTC)
	return &fakeStore{
		company: &models.Company{
			ID:          "company-1",
			Name:        "Talleres Ruiz",
			Country:     "ES",
			Region:      &region,
			Sector:      "industry",
			CompanySize: models.CompanySizeSmall,
		},
		match: &models.GrantOpportunity{
			CompanyGrant: models.CompanyGrant{
				ID:         "cg-1",
				CompanyID:  "company-1",
				GrantID:    "grant-1",
				MatchScore: 85,
				Status:     models.GrantStatusOpportunity,
				MatchData: &models.MatchDetails{
					ScoreBreakdown: []models.ScoreComponent{
						{RuleType: models.RuleSectorMatch, Score: 40, MaxScore: 40, Reason: "Tu sector (industry) está incluido en la ayuda."},
						{RuleType: models.RuleCNAEMatch, Score: 0, MaxScore: 10},
					},
					ImpactEstimation: models.EconomicEstimation{
						EstimatedAmount: 12000,
						Confidence:      models.ConfidenceMedium,
						Currency:        "EUR",
					},
				},
			},
			Grant: models.Grant{
				ID:                  "grant-1",
				Title:               "Industria Conectada 4.0",
				Issuer:              "Ministerio de Industria",
				ApplicationDeadline: &deadline,
			},
		},
	}
}

// ==========================
// Execute
// ==========================

func TestExecute_FallsBackToSecondProvider(t *testing.T) {
	primary := &fakeGenerator{err: &textgen.StatusError{Provider: "openai", Code: 503}}
	secondary := &fakeGenerator{text: "  Esta ayuda encaja porque tu sector está incluido.  "}
	explainer := textgen.NewFallback(logger.NewNoOpLogger(),
		textgen.Provider{Name: textgen.ProviderOpenAI, Generator: primary},
		textgen.Provider{Name: textgen.ProviderGenAI, Generator: secondary},
	)

	h := NewHandler(createTestConfig(), createTestStore(), explainer, nil, nil, logger.NewTestLogger(t))

	output, err := h.Execute(context.Background(), &Input{CompanyID: "company-1", GrantID: "grant-1"})
	require.NoError(t, err)

	assert.Equal(t, "Esta ayuda encaja porque tu sector está incluido.", output.Summary)
	assert.Equal(t, textgen.ProviderGenAI, output.Provider)
	assert.Equal(t, 85, output.MatchScore)

	assert.Equal(t, 300, secondary.maxTokens)
	assert.Contains(t, secondary.prompt, "Talleres Ruiz")
	assert.Contains(t, secondary.prompt, "Industria Conectada 4.0")
	assert.Contains(t, secondary.prompt, "Región: Andalucía")
	assert.Contains(t, secondary.prompt, "Plazo de solicitud: 30/11/2025")
	assert.Contains(t, secondary.prompt, "- Tu sector (industry) está incluido en la ayuda.")
	assert.Contains(t, secondary.prompt, "Importe estimado:")
	assert.NotContains(t, secondary.prompt, "cnae_match")
}

func TestExecute_MaxTokensOverride(t *testing.T) {
	gen := &fakeGenerator{text: "ok"}
	explainer := textgen.NewFallback(logger.NewNoOpLogger(), textgen.Provider{Name: "fake", Generator: gen})

	h := NewHandler(createTestConfig(), createTestStore(), explainer, nil, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{CompanyID: "company-1", GrantID: "grant-1", MaxTokens: 120})
	require.NoError(t, err)
	assert.Equal(t, 120, gen.maxTokens)
}

func TestExecute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		companyID string
		matchErr  error
		genErr    error
		wantCode  apperrors.ErrorCode
	}{
		{name: "company missing", companyID: "other", wantCode: apperrors.ErrCodeCompanyNotFound},
		{name: "match missing", companyID: "company-1", matchErr: repository.ErrMatchNotFound, wantCode: apperrors.ErrCodeMatchNotFound},
		{name: "match read failure", companyID: "company-1", matchErr: errors.New("connection reset"), wantCode: apperrors.ErrCodeDatabaseConnectionFailed},
		{name: "all providers fail", companyID: "company-1", genErr: errors.New("bad gateway"), wantCode: apperrors.ErrCodeTextGenerationFailed},
		{name: "provider timeout", companyID: "company-1", genErr: context.DeadlineExceeded, wantCode: apperrors.ErrCodeTextGenerationTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore()
			store.matchErr = tt.matchErr
			explainer := textgen.NewFallback(logger.NewNoOpLogger(),
				textgen.Provider{Name: "fake", Generator: &fakeGenerator{text: "ok", err: tt.genErr}})

			h := NewHandler(createTestConfig(), store, explainer, nil, nil, logger.NewNoOpLogger())

			_, err := h.Execute(context.Background(), &Input{CompanyID: tt.companyID, GrantID: "grant-1"})
			stdErr, ok := apperrors.AsStandardError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.WorkerConfig{}, config.AIConfig{Timeout: 20000, MaxTokens: 250}, "EUR")
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, 250, cfg.MaxTokens)

	cfg = LoadConfig(config.WorkerConfig{Timeout: 5000}, config.AIConfig{}, "EUR")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 400, cfg.MaxTokens)
}
