// Package gateway manages the outbound completion-request lifecycle: rate
// limiting, in-flight deduplication, retry with backoff, timeout handling,
// and error classification.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ConfigurationError indicates missing or invalid credentials/configuration.
// It is fatal and never retried.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is required", e.Missing)
}

// ClientError indicates a non-retryable 4xx response (bad request, auth).
type ClientError struct {
	StatusCode int
	Body       string
}

func (e *ClientError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("completion endpoint returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("completion endpoint returned %d", e.StatusCode)
}

// TransientError indicates a retryable failure: 429, 5xx, or a network
// error. Exhausted is set once the retry budget has been spent.
type TransientError struct {
	StatusCode int
	RetryAfter time.Duration
	Exhausted  bool
	Attempts   int
	Cause      error
}

func (e *TransientError) Error() string {
	switch {
	case e.Exhausted:
		return fmt.Sprintf("transient error persisted after %d attempts: %v", e.Attempts, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("transient error: status %d", e.StatusCode)
	default:
		return fmt.Sprintf("transient error: %v", e.Cause)
	}
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates the request exceeded its time budget after the
// retry policy ran out.
type TimeoutError struct {
	Attempts int
	Cause    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ClassifyStatus maps an HTTP response from the completion endpoint to the
// gateway error taxonomy. Only the status code drives the classification;
// a Retry-After header on retryable responses is preserved so the retry
// policy can honor it over the computed backoff.
func ClassifyStatus(statusCode int, header http.Header, body string) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
		return &TransientError{
			StatusCode: statusCode,
			RetryAfter: parseRetryAfter(header),
		}
	}
	return &ClientError{StatusCode: statusCode, Body: body}
}

// parseRetryAfter reads a delay-seconds Retry-After value. HTTP-date values
// are ignored; the completion endpoint only sends seconds.
func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// IsRetryable reports whether an error may succeed on retry.
func IsRetryable(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}
