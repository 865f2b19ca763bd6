// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeParseError ErrorCode = "PARSE_ERROR"

	ErrCodeSnapshotNotFound    ErrorCode = "SNAPSHOT_NOT_FOUND"
	ErrCodeSnapshotFetchFailed ErrorCode = "SNAPSHOT_FETCH_FAILED"
	ErrCodeMatchScoreFailed    ErrorCode = "MATCH_SCORE_FAILED"
	ErrCodeRankingFailed       ErrorCode = "RANKING_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeResponseSchemaInvalid  ErrorCode = "RESPONSE_SCHEMA_INVALID"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
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

// New creates a StandardError with the given code.
func New(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewSnapshotNotFoundError marks a missing provider or request snapshot.
// Not retryable: the record either exists or it does not.
func NewSnapshotNotFoundError(details string) *StandardError {
	return New(ErrCodeSnapshotNotFound, "Snapshot not found", details, false)
}

// NewSnapshotFetchFailedError marks a transient storage failure.
func NewSnapshotFetchFailedError(details string) *StandardError {
	return New(ErrCodeSnapshotFetchFailed, "Failed to fetch snapshot", details, true)
}

// NewSearchFailedError marks a failed provider-pool search.
func NewSearchFailedError(details string) *StandardError {
	return New(ErrCodeSearchQueryFailed, "Provider search failed", details, true)
}

// BPMNError represents an error thrown to the Camunda workflow engine.
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

// ConvertToBPMNError maps a StandardError onto the workflow error shape.
func ConvertToBPMNError(err *StandardError) *BPMNError {
	return &BPMNError{
		Code:      string(err.Code),
		Message:   err.Message,
		Details:   err.Details,
		Retryable: err.Retryable,
		Retries:   GetRetryCount(err.Code),
		ErrorVariables: map[string]interface{}{
			"errorCode":    string(err.Code),
			"errorMessage": err.Message,
			"errorDetails": err.Details,
			"retryable":    err.Retryable,
		},
	}
}

// GetRetryCount is the per-code retry policy applied when failing a job.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSnapshotFetchFailed, ErrCodeQueryTimeout, ErrCodeSearchTimeout,
		ErrCodeDatabaseConnectionFailed, ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeQueryExecutionFailed, ErrCodeSearchQueryFailed:
		return 2
	default:
		return 0
	}
}
