package camunda

import (
	"errors"
	"testing"

	apperrors "compliance-workers/internal/common/errors"
	"compliance-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableZeebeError(t *testing.T) {
	tests := []struct {
		msg      string
		expected bool
	}{
		{"rpc error: code = Unavailable desc = connection refused", true},
		{"context deadline exceeded", true},
		{"job not found", false},
		{"permission denied", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryableZeebeError(errors.New(tt.msg)))
		})
	}
}

func TestMapZeebeError(t *testing.T) {
	tests := []struct {
		msg          string
		expectedCode apperrors.ErrorCode
	}{
		{"context deadline exceeded", "TIMEOUT_ERROR"},
		{"job with key 1 not found", "RESOURCE_NOT_FOUND"},
		{"unauthorized", "AUTHENTICATION_ERROR"},
		{"connection refused", "EXTERNAL_SERVICE_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			stdErr, ok := apperrors.AsStandardError(MapZeebeError(errors.New(tt.msg), "complete"))
			require.True(t, ok)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestInstrument_RecordsDuration(t *testing.T) {
	const taskType = "instrument-test"
	called := false

	handler := Instrument(taskType, func(client worker.JobClient, job entities.Job) {
		called = true
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	}, nil)

	handler(nil, entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 42}})

	assert.True(t, called)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.WorkerJobsActive.WithLabelValues(taskType)))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.WorkerJobDuration, "compliance_worker_job_duration_seconds"))
}
