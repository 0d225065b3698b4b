// Package errors provides standardized error handling for the analysis engine.
package errors

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Upstream source errors
const (
	ErrCodeSourceUnavailable   ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeSourceTimeout       ErrorCode = "SOURCE_TIMEOUT"
	ErrCodeSourceRateLimited   ErrorCode = "SOURCE_RATE_LIMITED"
	ErrCodeSourceBadPayload    ErrorCode = "SOURCE_BAD_PAYLOAD"
	ErrCodeSourceSchemaInvalid ErrorCode = "SOURCE_SCHEMA_INVALID"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeAnalysisInvalidInput ErrorCode = "ANALYSIS_INVALID_INPUT"
	ErrCodeAnalysisFailed       ErrorCode = "ANALYSIS_FAILED"
	ErrCodeAnalysisNotFound     ErrorCode = "ANALYSIS_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSourceUnavailableError creates a retryable upstream error
// (502/503-equivalent or connection failure).
func NewSourceUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceUnavailable,
		Message:   "Upstream source unavailable",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceTimeoutError creates a retryable upstream timeout error.
func NewSourceTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceTimeout,
		Message:   "Upstream source timed out",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceRateLimitedError creates a retryable rate-limit error.
func NewSourceRateLimitedError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceRateLimited,
		Message:   "Upstream source rate limited the request",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceBadPayloadError creates a non-retryable payload parse error.
func NewSourceBadPayloadError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceBadPayload,
		Message:   "Upstream payload could not be decoded",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewSourceSchemaInvalidError creates a non-retryable schema mismatch error.
func NewSourceSchemaInvalidError(source, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSourceSchemaInvalid,
		Message:   "Upstream payload failed schema validation",
		Details:   fmt.Sprintf("source: %s, %s", source, details),
		Retryable: false,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisInvalidInputError creates a non-retryable input validation error.
func NewAnalysisInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisInvalidInput,
		Message:   "Analysis request input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError creates a non-retryable scoring failure.
func NewAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Analysis scoring failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisNotFoundError creates a non-retryable lookup miss.
func NewAnalysisNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAnalysisNotFound,
		Message:   "Analysis not found",
		Details:   id,
		Retryable: false,
		Metadata:  map[string]interface{}{"analysis_id": id},
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable database error.
func NewQueryExecutionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether an error should be retried. StandardErrors
// carry the decision explicitly; plain network errors count as transient.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}

// RetryableStatus reports whether an HTTP status code indicates a
// transient upstream condition.
func RetryableStatus(status int) bool {
	switch status {
	case 429, 502, 503, 504:
		return true
	}
	return false
}
