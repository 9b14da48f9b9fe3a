// internal/workers/ai/explain-match/handler.go
package explainmatch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"compliance-workers/internal/common/camunda"
	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/common/validation"
	"compliance-workers/internal/matching"
	"compliance-workers/internal/models"
	"compliance-workers/internal/repository"
	"compliance-workers/internal/textgen"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "explain-match"
)

type MatchReader interface {
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	GetCompanyGrant(ctx context.Context, companyID, grantID string) (*models.GrantOpportunity, error)
}

// Explainer is a text generator that reports the provider it used.
type Explainer interface {
	GenerateWithProvider(ctx context.Context, prompt string, maxTokens int) (string, string, error)
}

type Handler struct {
	config    *Config
	store     MatchReader
	explainer Explainer
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, store MatchReader, explainer Explainer, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		store:     store,
		explainer: explainer,
		validator: validator,
		errors:    apperrors.NewErrorHandler(log),
		obs:       obs,
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := camunda.DecodeVariables(h.validator, TaskType, job.Variables, &input); err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	company, err := h.store.GetCompany(ctx, input.CompanyID)
	if errors.Is(err, repository.ErrCompanyNotFound) {
		return nil, apperrors.NewCompanyNotFoundError(input.CompanyID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}

	match, err := h.store.GetCompanyGrant(ctx, input.CompanyID, input.GrantID)
	if errors.Is(err, repository.ErrMatchNotFound) {
		return nil, apperrors.NewMatchNotFoundError(input.CompanyID, input.GrantID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	}

	maxTokens := h.config.MaxTokens
	if input.MaxTokens > 0 {
		maxTokens = input.MaxTokens
	}

	summary, provider, err := h.explainer.GenerateWithProvider(ctx, h.buildPrompt(company, match), maxTokens)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTextGenerationTimeoutError()
		}
		return nil, apperrors.NewTextGenerationFailedError(err)
	}

	h.logger.Info("match explained", map[string]interface{}{
		"companyId": input.CompanyID,
		"grantId":   input.GrantID,
		"provider":  provider,
		"length":    len(summary),
	})

	return &Output{
		Summary:    strings.TrimSpace(summary),
		Provider:   provider,
		MatchScore: match.MatchScore,
	}, nil
}

func (h *Handler) buildPrompt(company *models.Company, match *models.GrantOpportunity) string {
	var parts []string

	parts = append(parts, "Explica en un párrafo breve, en español y sin tecnicismos, por qué esta ayuda encaja con la empresa.")
	parts = append(parts, "Usa SOLO los datos proporcionados. No inventes requisitos ni importes.")

	parts = append(parts, fmt.Sprintf("\nEmpresa: %s (sector %s, tamaño %s, país %s)",
		company.Name, company.Sector, company.CompanySize, company.Country))
	if company.Region != nil {
		parts = append(parts, fmt.Sprintf("Región: %s", *company.Region))
	}

	grant := match.Grant
	parts = append(parts, fmt.Sprintf("\nAyuda: %s", grant.Title))
	if grant.Issuer != "" {
		parts = append(parts, fmt.Sprintf("Organismo: %s", grant.Issuer))
	}
	if grant.ApplicationDeadline != nil {
		parts = append(parts, fmt.Sprintf("Plazo de solicitud: %s", grant.ApplicationDeadline.Format("02/01/2006")))
	}
	parts = append(parts, fmt.Sprintf("Puntuación de encaje: %d/100", match.MatchScore))

	if match.MatchData != nil {
		var reasons []string
		for _, c := range match.MatchData.ScoreBreakdown {
			if c.Score > 0 && c.Reason != "" {
				reasons = append(reasons, "- "+c.Reason)
			}
		}
		if len(reasons) > 0 {
			parts = append(parts, "\nCriterios cumplidos:")
			parts = append(parts, reasons...)
		}

		impact := match.MatchData.ImpactEstimation
		if impact.EstimatedAmount > 0 {
			currency := impact.Currency
			if currency == "" {
				currency = h.config.Currency
			}
			parts = append(parts, fmt.Sprintf("Importe estimado: %s (confianza %s)",
				matching.FormatAmount(impact.EstimatedAmount, currency), impact.Confidence))
		}
	}

	return strings.Join(parts, "\n")
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	if err := camunda.CompleteJob(context.Background(), client, job, output, h.obs); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	camunda.FailJob(context.Background(), client, job, err, h.errors, h.obs)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

var _ Explainer = (*textgen.Fallback)(nil)
