package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// Request-shape failures, surfaced immediately and never retried.
	ErrorTypeInvalidInput  ErrorType = "invalid_input"
	ErrorTypeTokenNotFound ErrorType = "token_not_found"

	// Content-state failures reported by the primary lookup.
	ErrorTypePrivateOrUnavailable ErrorType = "private_or_unavailable"
	ErrorTypeUnsupportedKind      ErrorType = "unsupported_kind"

	// Outbound dispatch failures.
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeRateLimit      ErrorType = "rate_limit"
	ErrorTypeFetchExhausted ErrorType = "fetch_exhausted"
	ErrorTypeServerError    ErrorType = "server_error"
	ErrorTypeParsing        ErrorType = "parsing"
	ErrorTypeNotFound       ErrorType = "not_found"

	// Terminal orchestrator outcome when every strategy failed.
	ErrorTypeAllStrategiesExhausted ErrorType = "all_strategies_exhausted"

	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents a resolution error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// New creates a typed error with no associated HTTP status code
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Newf creates a typed error with a formatted message
func Newf(errorType ErrorType, format string, args ...interface{}) *Error {
	return &Error{Type: errorType, Message: fmt.Sprintf(format, args...)}
}

// WithCode creates a typed error carrying the upstream HTTP status code
func WithCode(errorType ErrorType, message string, code int) *Error {
	return &Error{Type: errorType, Message: message, Code: code}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	case 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}

// IsTerminal reports whether an error type must be surfaced to the caller
// instead of triggering the next strategy.
func IsTerminal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeInvalidInput, ErrorTypeTokenNotFound,
		ErrorTypePrivateOrUnavailable, ErrorTypeUnsupportedKind,
		ErrorTypeRateLimit:
		return true
	default:
		return false
	}
}
