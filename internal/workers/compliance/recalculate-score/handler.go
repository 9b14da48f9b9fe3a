// internal/workers/compliance/recalculate-score/handler.go
package recalculatescore

import (
	"context"
	"errors"

	"compliance-workers/internal/common/camunda"
	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/common/validation"
	"compliance-workers/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "recalculate-compliance-score"
)

type ScoreRecalculator interface {
	Recalculate(ctx context.Context, companyID string) (int, error)
}

type Handler struct {
	config     *Config
	aggregator ScoreRecalculator
	validator  *validation.Validator
	errors     *apperrors.ErrorHandler
	obs        *observability.Observability
	logger     logger.Logger
}

func NewHandler(config *Config, aggregator ScoreRecalculator, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		aggregator: aggregator,
		validator:  validator,
		errors:     apperrors.NewErrorHandler(log),
		obs:        obs,
		logger:     log,
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
	score, err := h.aggregator.Recalculate(ctx, input.CompanyID)
	switch {
	case errors.Is(err, repository.ErrCompanyNotFound):
		return nil, apperrors.NewCompanyNotFoundError(input.CompanyID)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewQueryTimeoutError(TaskType)
	case err != nil:
		return nil, apperrors.NewScoreUpdateFailedError(err)
	}

	return &Output{ComplianceScore: score}, nil
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
