package spotify

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRateLimited matches any *RateLimitError. Callers may retry.
	ErrRateLimited  = errors.New("spotify: rate limited")
	ErrUnauthorized = errors.New("spotify: unauthorized")
)

// RateLimitError is returned for HTTP 429. RetryAfter is zero when the
// response carried no usable Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("spotify: rate limited, retry after %s", e.RetryAfter)
	}
	return "spotify: rate limited"
}

func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// StatusError is any other non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify: unexpected status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("spotify: unexpected status code %d", e.StatusCode)
}
