package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrRateLimited  ErrorCode = "RATE_LIMITED"

	// Upload and extraction errors
	ErrNoFileProvided   ErrorCode = "NO_FILE_PROVIDED"
	ErrInvalidMediaType ErrorCode = "INVALID_MEDIA_TYPE"
	ErrFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrUnreadablePDF    ErrorCode = "UNREADABLE_PDF"

	// Quiz generation errors
	ErrNoTextProvided         ErrorCode = "NO_TEXT_PROVIDED"
	ErrServiceUnauthenticated ErrorCode = "SERVICE_UNAUTHENTICATED"
	ErrServiceCallFailed      ErrorCode = "SERVICE_CALL_FAILED"
	ErrServiceTimeout         ErrorCode = "SERVICE_TIMEOUT"
	ErrUnexpectedServiceShape ErrorCode = "UNEXPECTED_SERVICE_SHAPE"
	ErrNoJSONFound            ErrorCode = "NO_JSON_FOUND"
	ErrMalformedJSON          ErrorCode = "MALFORMED_JSON"
	ErrInvalidQuiz            ErrorCode = "INVALID_QUIZ"
)

// DomainError represents a domain-specific error.
// Message is safe to show to callers; Err carries the diagnostic cause.
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so callers can write
// errors.Is(err, domain.NewError(domain.ErrNoJSONFound, "", nil)) or use CodeOf.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewRateLimitedError() *DomainError {
	return NewError(ErrRateLimited, "Rate limit exceeded. Try again later.", nil)
}

func NewNoFileProvidedError() *DomainError {
	return NewError(ErrNoFileProvided, "No file uploaded", nil)
}

func NewInvalidMediaTypeError(contentType string) *DomainError {
	return NewError(ErrInvalidMediaType, "Only PDF files are allowed", fmt.Errorf("declared content type %q", contentType))
}

func NewFileTooLargeError(size, limit int64) *DomainError {
	return NewError(ErrFileTooLarge, fmt.Sprintf("File exceeds the %d MB upload limit", limit>>20),
		fmt.Errorf("upload of %d bytes, limit %d", size, limit))
}

func NewUnreadablePDFError(err error) *DomainError {
	return NewError(ErrUnreadablePDF, "Error processing PDF", err)
}

func NewNoTextProvidedError() *DomainError {
	return NewError(ErrNoTextProvided, "No text provided", nil)
}

func NewServiceUnauthenticatedError() *DomainError {
	return NewError(ErrServiceUnauthenticated,
		"API key not properly configured. Please set GEMINI_API_KEY to enable quiz generation.", nil)
}

func NewServiceCallFailedError(err error) *DomainError {
	return NewError(ErrServiceCallFailed, "Error calling quiz generation service", err)
}

func NewServiceTimeoutError(err error) *DomainError {
	return NewError(ErrServiceTimeout, "Quiz generation service timed out", err)
}

func NewUnexpectedServiceShapeError(err error) *DomainError {
	return NewError(ErrUnexpectedServiceShape, "Unexpected API response structure", err)
}

func NewNoJSONFoundError(err error) *DomainError {
	return NewError(ErrNoJSONFound, "No JSON object found in the API response", err)
}

func NewMalformedJSONError(err error) *DomainError {
	return NewError(ErrMalformedJSON, "Failed to parse quiz data from API response", err)
}

func NewInvalidQuizError(err error) *DomainError {
	return NewError(ErrInvalidQuiz, "Generated quiz does not match the requested shape", err)
}

// UpstreamError records a non-2xx answer from the generation service.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// IsTransient reports whether a failed upstream call is worth retrying:
// network errors, 429 and 5xx answers. Context cancellation never is.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode == http.StatusTooManyRequests || ue.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
