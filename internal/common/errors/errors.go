// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"

	ErrCodeVendorNotFound     ErrorCode = "VENDOR_NOT_FOUND"
	ErrCodeProfileBuildFailed ErrorCode = "PROFILE_BUILD_FAILED"
	ErrCodeRankingFailed      ErrorCode = "RANKING_FAILED"
	ErrCodeRecomputeFailed    ErrorCode = "RECOMPUTE_FAILED"

	ErrCodeConfigValidationFailed ErrorCode = "CONFIG_VALIDATION_FAILED"
	ErrCodeConfigSaveFailed       ErrorCode = "CONFIG_SAVE_FAILED"
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Failed to parse job variables", err.Error(), false)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

// NewVendorNotFoundError is a business error: the BPMN model catches it, no retry.
func NewVendorNotFoundError(businessID string) *StandardError {
	e := newError(ErrCodeVendorNotFound, "Vendor not found", businessID, false)
	e.Metadata = map[string]interface{}{"businessId": businessID}
	return e
}

func NewProfileBuildFailedError(businessID string, err error) *StandardError {
	e := newError(ErrCodeProfileBuildFailed, "Failed to build vendor profile", err.Error(), true)
	e.Metadata = map[string]interface{}{"businessId": businessID}
	return e
}

func NewRankingFailedError(err error) *StandardError {
	return newError(ErrCodeRankingFailed, "Failed to rank listings", err.Error(), true)
}

func NewRecomputeFailedError(err error) *StandardError {
	return newError(ErrCodeRecomputeFailed, "Profile recompute run failed", err.Error(), true)
}

func NewConfigValidationFailedError(details string) *StandardError {
	return newError(ErrCodeConfigValidationFailed, "Smart match config rejected", details, false)
}

func NewConfigSaveFailedError(err error) *StandardError {
	return newError(ErrCodeConfigSaveFailed, "Failed to save smart match config", err.Error(), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParsingFailed:     "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:       "VALIDATION_FAILED",
	ErrCodeVendorNotFound:         "VENDOR_NOT_FOUND",
	ErrCodeProfileBuildFailed:     "PROFILE_BUILD_FAILED",
	ErrCodeRankingFailed:          "RANKING_FAILED",
	ErrCodeRecomputeFailed:        "RECOMPUTE_FAILED",
	ErrCodeConfigValidationFailed: "CONFIG_VALIDATION_FAILED",
	ErrCodeConfigSaveFailed:       "CONFIG_SAVE_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeProfileBuildFailed,
		ErrCodeRankingFailed,
		ErrCodeConfigSaveFailed:
		return 3

	case ErrCodeRecomputeFailed:
		return 2

	default:
		return 0 // Business errors: no retry
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

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VENDOR") || strings.Contains(codeStr, "PROFILE"):
		return "PROFILE"
	case strings.Contains(codeStr, "RANKING") || strings.Contains(codeStr, "RECOMPUTE"):
		return "SCORING"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	case strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// Code extracts the error code of a StandardError, or UNKNOWN_ERROR.
func Code(err error) string {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}
