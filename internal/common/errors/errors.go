// Package errors provides the error taxonomy shared by workers and its mapping to BPMN errors.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode is a stable internal error code.
type ErrorCode string

const (
	// Input / lookup errors
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeCompanyNotFound ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeGrantNotFound   ErrorCode = "GRANT_NOT_FOUND"
	ErrCodeMatchNotFound   ErrorCode = "MATCH_NOT_FOUND"

	// Persistence
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeCatalogReadFailed        ErrorCode = "CATALOG_READ_FAILED"
	ErrCodeMatchPersistFailed       ErrorCode = "MATCH_PERSIST_FAILED"
	ErrCodeScoreUpdateFailed        ErrorCode = "SCORE_UPDATE_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	// Alerts
	ErrCodeAlertSyncFailed     ErrorCode = "ALERT_SYNC_FAILED"
	ErrCodeAlertSyncInProgress ErrorCode = "ALERT_SYNC_IN_PROGRESS"

	// Batch
	ErrCodeBatchFailed ErrorCode = "BATCH_MATCH_FAILED"

	// Text generation / notifications
	ErrCodeTextGenerationFailed  ErrorCode = "TEXT_GENERATION_FAILED"
	ErrCodeTextGenerationTimeout ErrorCode = "TEXT_GENERATION_TIMEOUT"
	ErrCodeNotificationFailed    ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// BPMNError is what a worker throws or fails a Zeebe job with.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidInput, "Invalid job input", nil, false)
	e.Details = details
	return e
}

func NewCompanyNotFoundError(companyID string) *StandardError {
	e := newError(ErrCodeCompanyNotFound, "Company not found", nil, false)
	e.Details = fmt.Sprintf("companyId: %s", companyID)
	return e
}

func NewGrantNotFoundError(grantID string) *StandardError {
	e := newError(ErrCodeGrantNotFound, "Grant not found", nil, false)
	e.Details = fmt.Sprintf("grantId: %s", grantID)
	return e
}

func NewMatchNotFoundError(companyID, grantID string) *StandardError {
	e := newError(ErrCodeMatchNotFound, "Company grant match not found", nil, false)
	e.Details = fmt.Sprintf("companyId: %s, grantId: %s", companyID, grantID)
	return e
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err, true)
}

func NewCatalogReadFailedError(catalog string, err error) *StandardError {
	return newError(ErrCodeCatalogReadFailed, fmt.Sprintf("Failed to read %s", catalog), err, true)
}

func NewMatchPersistFailedError(err error) *StandardError {
	return newError(ErrCodeMatchPersistFailed, "Failed to persist match results", err, true)
}

func NewScoreUpdateFailedError(err error) *StandardError {
	return newError(ErrCodeScoreUpdateFailed, "Failed to update compliance score", err, true)
}

func NewQueryTimeoutError(operation string) *StandardError {
	e := newError(ErrCodeQueryTimeout, "Database query timeout", nil, true)
	e.Details = fmt.Sprintf("operation: %s", operation)
	return e
}

func NewAlertSyncFailedError(err error) *StandardError {
	return newError(ErrCodeAlertSyncFailed, "Alert sync failed", err, true)
}

func NewAlertSyncInProgressError(companyID string) *StandardError {
	e := newError(ErrCodeAlertSyncInProgress, "Alert sync already running for company", nil, true)
	e.Details = fmt.Sprintf("companyId: %s", companyID)
	return e
}

func NewBatchFailedError(err error) *StandardError {
	return newError(ErrCodeBatchFailed, "Batch matching failed", err, true)
}

func NewTextGenerationFailedError(err error) *StandardError {
	return newError(ErrCodeTextGenerationFailed, "Text generation failed", err, true)
}

func NewTextGenerationTimeoutError() *StandardError {
	e := newError(ErrCodeTextGenerationTimeout, "Text generation timeout", nil, true)
	e.Details = "provider call exceeded timeout"
	return e
}

func NewNotificationFailedError(channel string, err error) *StandardError {
	e := newError(ErrCodeNotificationFailed, "Notification delivery failed", err, true)
	e.Details = fmt.Sprintf("channel: %s, error: %s", channel, e.Details)
	return e
}

func NewExternalServiceError(service string, err error) *StandardError {
	e := newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err, true)
	return e
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err, true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	e := newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), nil, false)
	e.Details = details
	return e
}

func NewBusinessRuleError(message, details string) *StandardError {
	e := newError("BUSINESS_RULE_VIOLATION", message, nil, false)
	e.Details = details
	return e
}

func NewAuthenticationError(details string) *StandardError {
	e := newError("AUTHENTICATION_ERROR", "Authentication failed", nil, false)
	e.Details = details
	return e
}

// AsStandardError unwraps err to a *StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// BPMNErrorMapping maps internal codes to the error codes modelled in the BPMN processes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidInput:             "INVALID_INPUT",
	ErrCodeCompanyNotFound:          "COMPANY_NOT_FOUND",
	ErrCodeGrantNotFound:            "GRANT_NOT_FOUND",
	ErrCodeMatchNotFound:            "MATCH_NOT_FOUND",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeCatalogReadFailed:        "CATALOG_READ_FAILED",
	ErrCodeMatchPersistFailed:       "MATCH_PERSIST_FAILED",
	ErrCodeScoreUpdateFailed:        "SCORE_UPDATE_FAILED",
	ErrCodeQueryTimeout:             "QUERY_TIMEOUT",
	ErrCodeAlertSyncFailed:          "ALERT_SYNC_FAILED",
	ErrCodeAlertSyncInProgress:      "ALERT_SYNC_IN_PROGRESS",
	ErrCodeBatchFailed:              "BATCH_MATCH_FAILED",
	ErrCodeTextGenerationFailed:     "TEXT_GENERATION_FAILED",
	ErrCodeTextGenerationTimeout:    "TEXT_GENERATION_TIMEOUT",
	ErrCodeNotificationFailed:       "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns how many times Zeebe should retry a job failing with code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeCatalogReadFailed,
		ErrCodeMatchPersistFailed,
		ErrCodeScoreUpdateFailed,
		ErrCodeAlertSyncFailed,
		ErrCodeBatchFailed,
		ErrCodeNotificationFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeAlertSyncInProgress,
		ErrCodeTextGenerationFailed:
		return 2

	case ErrCodeTextGenerationTimeout:
		return 1

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") ||
		strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "PERSIST") || strings.Contains(codeStr, "SCORE"):
		return "DATABASE"
	case strings.Contains(codeStr, "ALERT"):
		return "ALERTS"
	case strings.Contains(codeStr, "BATCH"):
		return "BATCH"
	case strings.Contains(codeStr, "TEXT_GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
