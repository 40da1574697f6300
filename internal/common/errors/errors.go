// Package errors provides standardized error handling for the HTTP shell and
// BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrCodeVocabularyLoadFailed ErrorCode = "VOCABULARY_LOAD_FAILED"
	ErrCodeSchemaLoadFailed     ErrorCode = "SCHEMA_LOAD_FAILED"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeMappingFailed        ErrorCode = "MAPPING_FAILED"
	ErrCodeDatabaseFailed       ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeWorkflowEngine       ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
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

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *StandardError) Unwrap() error { return e.cause }

// Is matches any StandardError carrying the same code.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// WithMetadata returns e with one metadata entry added.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
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

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
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

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func detailsOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// NewInvalidRequestError creates a non-retryable input error.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid mapping request", details, false, nil)
}

// NewVocabularyLoadFailedError reports an unusable vocabulary source.
func NewVocabularyLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeVocabularyLoadFailed, "Failed to load vocabulary", detailsOf(err), true, err).
		WithMetadata("source", source)
}

// NewSchemaLoadFailedError reports a props schema that could not be compiled.
func NewSchemaLoadFailedError(schema string, err error) *StandardError {
	return newError(ErrCodeSchemaLoadFailed, "Failed to load props schema", detailsOf(err), false, err).
		WithMetadata("schema", schema)
}

// NewCacheUnavailableError reports a response cache outage.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Response cache unavailable", detailsOf(err), true, err)
}

// NewMappingFailedError wraps an unexpected failure while mapping.
func NewMappingFailedError(err error) *StandardError {
	return newError(ErrCodeMappingFailed, "Failed to map entities to layout", detailsOf(err), true, err)
}

// NewDatabaseConnectionFailedError reports an unreachable database.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseFailed, "Failed to connect to database", detailsOf(err), true, err)
}

// NewWorkflowEngineError reports a failed call to the Zeebe gateway.
func NewWorkflowEngineError(operation string, err error) *StandardError {
	return newError(ErrCodeWorkflowEngine, "Workflow engine unavailable", detailsOf(err), true, err).
		WithMetadata("operation", operation)
}

// NewInternalError wraps anything else.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", detailsOf(err), false, err)
}

// ==========================
// 4. Error Conversion
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidRequest:       "INVALID_REQUEST",
	ErrCodeVocabularyLoadFailed: "VOCABULARY_LOAD_FAILED",
	ErrCodeSchemaLoadFailed:     "SCHEMA_LOAD_FAILED",
	ErrCodeCacheUnavailable:     "CACHE_UNAVAILABLE",
	ErrCodeMappingFailed:        "MAPPING_FAILED",
	ErrCodeDatabaseFailed:       "DATABASE_CONNECTION_FAILED",
	ErrCodeWorkflowEngine:       "WORKFLOW_ENGINE_UNAVAILABLE",
	ErrCodeInternal:             "INTERNAL_ERROR",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeVocabularyLoadFailed, ErrCodeDatabaseFailed, ErrCodeMappingFailed, ErrCodeWorkflowEngine:
		return 3
	case ErrCodeCacheUnavailable:
		return 1
	default:
		return 0
	}
}

// HTTPStatus maps an error code to the status the HTTP shell responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeVocabularyLoadFailed, ErrCodeCacheUnavailable, ErrCodeDatabaseFailed, ErrCodeWorkflowEngine:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError finds a StandardError in err's chain, or wraps err as an
// internal error.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VOCABULARY") || strings.Contains(codeStr, "SCHEMA"):
		return "DATA"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "MAPPING"):
		return "MAPPING"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "EXTERNAL"
	default:
		return "OTHER"
	}
}
