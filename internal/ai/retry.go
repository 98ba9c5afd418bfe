package ai

import (
	"context"
	"errors"
	"strings"
	"time"
)

// timeSleep is a wrapper for time.After that can be overridden in tests.
//
//nolint:gochecknoglobals // Required for test mocking
var timeSleep = time.After

// isRetryable determines whether an error should be retried.
// Returns false for non-retryable errors (context errors, auth errors, parse errors).
// Returns true for transient errors (network, rate limits).
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "authentication") ||
		strings.Contains(errStr, "api key") ||
		strings.Contains(errStr, "_api_key") {
		return false
	}

	if strings.Contains(errStr, "invalid json") ||
		strings.Contains(errStr, "failed to parse json") {
		return false
	}

	if strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "executable file not found") {
		return false
	}

	return true
}
