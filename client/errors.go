package client

// Error classification for the retry policy: 4xx client errors (except
// 408/429) are irrecoverable, 5xx and network-level errors are recoverable.

import (
	"errors"
	"fmt"
)

// ErrorCategory determines how errors should be handled by retry logic.
type ErrorCategory int

const (
	// Recoverable errors are retried with exponential backoff.
	Recoverable ErrorCategory = iota

	// Irrecoverable errors fail immediately without retry.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// APIError wraps a failed call with categorization metadata.
type APIError struct {
	Category   ErrorCategory
	StatusCode int    // 0 for non-HTTP failures
	Body       string // response body, for diagnostics
	Underlying error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *APIError) Unwrap() error { return e.Underlying }

// newHTTPError builds an APIError for a non-2xx response.
func newHTTPError(statusCode int, body, operation string) *APIError {
	return &APIError{
		Category:   httpErrorCategory(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("%s failed: HTTP %d", operation, statusCode),
	}
}

// newNetworkError builds an APIError for a transport-level failure.
// Network errors are always recoverable as they may be transient.
func newNetworkError(operation string, err error) *APIError {
	return &APIError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}

func httpErrorCategory(statusCode int) ErrorCategory {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	case statusCode >= 500 && statusCode < 600:
		return Recoverable
	default:
		return Recoverable
	}
}

// IsNotFound reports whether err is an HTTP 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
