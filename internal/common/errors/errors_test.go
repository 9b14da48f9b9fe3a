package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name            string
		err             *StandardError
		expectedCode    string
		expectedRetries int
	}{
		{name: "retryable persistence error", err: NewMatchPersistFailedError(errors.New("deadlock")), expectedCode: "MATCH_PERSIST_FAILED", expectedRetries: 3},
		{name: "lock contention", err: NewAlertSyncInProgressError("company-001"), expectedCode: "ALERT_SYNC_IN_PROGRESS", expectedRetries: 2},
		{name: "business error", err: NewCompanyNotFoundError("company-001"), expectedCode: "COMPANY_NOT_FOUND", expectedRetries: 0},
		{name: "unmapped code falls back", err: NewBusinessRuleError("threshold", "x"), expectedCode: "BUSINESS_RULE_VIOLATION", expectedRetries: 0},
		{name: "text generation timeout", err: NewTextGenerationTimeoutError(), expectedCode: "TEXT_GENERATION_TIMEOUT", expectedRetries: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.expectedCode, bpmn.Code)
			assert.Equal(t, tt.expectedRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_NonRetryableOverridesCount(t *testing.T) {
	e := NewAlertSyncFailedError(errors.New("insert failed"))
	e.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(e).Retries)
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	e := NewBatchFailedError(errors.New("x")).WithMetadata("failedCompanies", 2)

	vars := ConvertToBPMNError(e).ToErrorVariables()

	assert.Equal(t, 2, vars["failedCompanies"])
	assert.Equal(t, "BATCH_MATCH_FAILED", vars["errorCode"])
	assert.Equal(t, true, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("sync company: %w", NewAlertSyncFailedError(errors.New("tx aborted")))
	assert.Equal(t, ErrCodeAlertSyncFailed, Normalize(wrapped).Code)

	timeout := fmt.Errorf("query: %w", context.DeadlineExceeded)
	assert.Equal(t, ErrorCode("TIMEOUT_ERROR"), Normalize(timeout).Code)

	plain := Normalize(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
}

func TestStandardError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewCatalogReadFailedError("scoring rules", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "connection refused", err.Details)
	assert.Equal(t, "StandardError[CATALOG_READ_FAILED]: Failed to read scoring rules", err.Error())
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "LOOKUP", GetErrorCategory(ErrCodeCompanyNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeScoreUpdateFailed))
	assert.Equal(t, "ALERTS", GetErrorCategory(ErrCodeAlertSyncInProgress))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeTextGenerationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING")))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidInput))
}
