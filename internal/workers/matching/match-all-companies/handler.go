// internal/workers/matching/match-all-companies/handler.go
package matchallcompanies

import (
	"context"
	"errors"
	"time"

	"compliance-workers/internal/batch"
	"compliance-workers/internal/common/camunda"
	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/logger"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/common/validation"
	"compliance-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "match-all-companies"
)

type BatchMatcher interface {
	MatchAll(ctx context.Context) (*batch.MatchAllSummary, error)
	MatchAllAsOf(ctx context.Context, asOf time.Time) (*batch.MatchAllSummary, error)
}

type Handler struct {
	config    *Config
	runner    BatchMatcher
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, runner BatchMatcher, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		runner:    runner,
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
	var (
		summary *batch.MatchAllSummary
		err     error
	)
	if input.AsOf != nil {
		summary, err = h.runner.MatchAllAsOf(ctx, input.AsOf.UTC())
	} else {
		summary, err = h.runner.MatchAll(ctx)
	}

	switch {
	case errors.Is(err, matching.ErrUnknownStrategy):
		return nil, apperrors.NewBusinessRuleError("Invalid batch scoring strategy", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewTimeoutError("batch", err)
	case err != nil:
		return nil, apperrors.NewBatchFailedError(err)
	}

	if len(summary.FailedCompanies) > 0 {
		h.logger.Warn("batch completed with failed companies", map[string]interface{}{
			"failed": len(summary.FailedCompanies),
		})
	}

	return &Output{
		Companies:         summary.Companies,
		Grants:            summary.Grants,
		TotalCombinations: summary.TotalCombinations,
		MatchesFound:      summary.MatchesFound,
		FailedCompanies:   summary.FailedCompanies,
	}, nil
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
