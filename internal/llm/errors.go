package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RateLimitError is a 429 from the provider.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// InvalidResponseError is output that is not valid JSON or does not match
// the requested schema.
type InvalidResponseError struct {
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// UnavailableError means the provider could not serve the request.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "model provider unavailable"
	}
	return fmt.Sprintf("model provider unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// RejectedError is a 4xx other than 429: bad key, bad model, bad request.
// Retrying it cannot help.
type RejectedError struct {
	StatusCode int
	Err        error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("request rejected (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// TruncatedError is output cut off at MaxTokens.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "model response truncated at max tokens"
}

// classifyStatus maps an SDK error carrying an HTTP status to one of the
// package error types.
func classifyStatus(status int, err error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return &RateLimitError{Err: err}
	case status >= 400 && status < 500:
		return &RejectedError{StatusCode: status, Err: err}
	default:
		return &UnavailableError{Err: err}
	}
}
