package dispatch

import (
	"errors"
	"fmt"
	"os"
)

// ErrorType represents the category of submission error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates an HTTP-level error (non-2xx status code)
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed dispatcher response
	ErrTypeParse
	// ErrTypeRejected indicates the dispatcher rejected the request payload
	ErrTypeRejected
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// SubmitError represents a failed submission to the dispatch service.
// Submission errors are always recoverable: the caller keeps the draft and
// may retry or fall back to a manual phone call.
type SubmitError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether a retry could succeed
}

// Error implements the error interface
func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SubmitError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a retryable network-level submission error
func NewNetworkError(message string, err error) *SubmitError {
	retryable := true
	if err != nil && os.IsTimeout(err) {
		// Timeouts stay retryable too, classification is for messaging only
		retryable = true
	}
	return &SubmitError{
		Type:      ErrTypeNetwork,
		Message:   message,
		Err:       err,
		Retryable: retryable,
	}
}

// NewHTTPError creates a submission error from an unexpected status code.
// Server-side errors (5xx) are retryable, client-side errors are not.
func NewHTTPError(statusCode int, message string) *SubmitError {
	return &SubmitError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewParseError creates a non-retryable response parsing error
func NewParseError(message string, err error) *SubmitError {
	return &SubmitError{
		Type:      ErrTypeParse,
		Message:   message,
		Err:       err,
		Retryable: false,
	}
}

// NewRejectedError creates a non-retryable rejection error
func NewRejectedError(message string) *SubmitError {
	return &SubmitError{
		Type:      ErrTypeRejected,
		Message:   message,
		Retryable: false,
	}
}

// IsRetryable reports whether the error is worth retrying
func IsRetryable(err error) bool {
	var submitErr *SubmitError
	if errors.As(err, &submitErr) {
		return submitErr.Retryable
	}
	// Unknown errors default to retryable
	return true
}
