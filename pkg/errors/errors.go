// Package errors provides standardized error types for the benchmark harness.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the benchmark pipeline
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnknownOperation  = "UNKNOWN_OPERATION"
	CodeConnectionFailed  = "CONNECTION_FAILED"
	CodeQueryFailed       = "QUERY_FAILED"
	CodeArtifactNotFound  = "ARTIFACT_NOT_FOUND"
	CodeAggregationFailed = "AGGREGATION_FAILED"
	CodeSeedFailed        = "SEED_FAILED"
	CodeReportFailed      = "REPORT_FAILED"
	CodeCanceled          = "CANCELED"
	CodeInternal          = "INTERNAL_ERROR"
)

// BenchError represents a benchmark error with code, message, and optional details.
type BenchError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface.
func (e *BenchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *BenchError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *BenchError) Is(target error) bool {
	t, ok := target.(*BenchError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetails adds details to the error.
func (e *BenchError) WithDetails(details map[string]interface{}) *BenchError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error.
func (e *BenchError) WithDetail(key string, value interface{}) *BenchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common errors
var (
	ErrUnknownOperation = &BenchError{Code: CodeUnknownOperation, Message: "operation name not in any dispatch set"}
	ErrMissingLabel     = &BenchError{Code: CodeInvalidInput, Message: "operand label is required"}
	ErrConnectionFailed = &BenchError{Code: CodeConnectionFailed, Message: "database connection failed"}
	ErrQueryFailed      = &BenchError{Code: CodeQueryFailed, Message: "query execution failed"}
	ErrArtifactNotFound = &BenchError{Code: CodeArtifactNotFound, Message: "log artifact not found"}
	ErrNoTimings        = &BenchError{Code: CodeAggregationFailed, Message: "log artifact contains no timing records"}
	ErrShortSample      = &BenchError{Code: CodeAggregationFailed, Message: "timing record count below expected sample size"}
	ErrSeedFailed       = &BenchError{Code: CodeSeedFailed, Message: "dataset seeding failed"}
	ErrCanceled         = &BenchError{Code: CodeCanceled, Message: "benchmark canceled"}
)

// New creates a new BenchError with the given code and message.
func New(code, message string) *BenchError {
	return &BenchError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a BenchError.
func Wrap(err error, code, message string) *BenchError {
	if err == nil {
		return nil
	}
	return &BenchError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, code, format string, args ...interface{}) *BenchError {
	if err == nil {
		return nil
	}
	return &BenchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// IsUnknownOperation checks if an error is an unknown operation error.
func IsUnknownOperation(err error) bool {
	var benchErr *BenchError
	if errors.As(err, &benchErr) {
		return benchErr.Code == CodeUnknownOperation
	}
	return false
}

// IsQueryFailed checks if an error is a query execution error.
func IsQueryFailed(err error) bool {
	var benchErr *BenchError
	if errors.As(err, &benchErr) {
		return benchErr.Code == CodeQueryFailed
	}
	return false
}

// IsAggregationFailed checks if an error is an aggregation error.
func IsAggregationFailed(err error) bool {
	var benchErr *BenchError
	if errors.As(err, &benchErr) {
		return benchErr.Code == CodeAggregationFailed
	}
	return false
}

// GetCode extracts the error code from an error.
func GetCode(err error) string {
	var benchErr *BenchError
	if errors.As(err, &benchErr) {
		return benchErr.Code
	}
	return CodeInternal
}

// GetMessage extracts the error message from an error.
func GetMessage(err error) string {
	var benchErr *BenchError
	if errors.As(err, &benchErr) {
		return benchErr.Message
	}
	return err.Error()
}
