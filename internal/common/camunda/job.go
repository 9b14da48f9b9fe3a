package camunda

import (
	"context"
	"encoding/json"
	"fmt"

	"compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/metrics"
	"compliance-workers/internal/common/observability"
	"compliance-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables validates the job variables against the task schema and
// unmarshals them into out. Failures are INVALID_INPUT errors.
func DecodeVariables(v *validation.Validator, taskType, variables string, out interface{}) error {
	if v != nil {
		result, err := v.Validate(taskType, variables)
		if err != nil {
			return errors.NewInvalidInputError(err.Error())
		}
		if !result.Valid {
			return errors.NewInvalidInputError(result.Summary())
		}
	}

	if variables == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(variables), out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// CompleteJob sends output as the job's result variables and counts the job.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, obs *observability.Observability) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		return fmt.Errorf("build complete command: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		return MapZeebeError(err, "complete job")
	}

	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
	obs.RecordJobProcessed(ctx, job.Type, "completed")
	return nil
}

// FailJob reports err through the error handler and counts the failure under
// the resulting BPMN error code.
func FailJob(ctx context.Context, client worker.JobClient, job entities.Job, err error, handler *errors.ErrorHandler, obs *observability.Observability) {
	bpmnErr := handler.HandleJobError(ctx, client, job, err)

	metrics.WorkerJobsFailed.WithLabelValues(job.Type, bpmnErr.Code).Inc()
	obs.RecordJobProcessed(ctx, job.Type, "failed")
}
